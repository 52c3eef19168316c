package task

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tetratelabs/wazero"
)

// The flite WebAssembly build shipped to the compute network. Treated
// as an opaque pair of blobs everywhere except the preflight check.
var (
	//go:embed assets/flite.js
	fliteJS []byte

	//go:embed assets/flite.wasm
	fliteWasm []byte
)

// Payload is the executable pair a wasm task carries: the emscripten
// JS shim and the wasm module it loads.
type Payload struct {
	JSName   string
	WasmName string
	JS       []byte
	Wasm     []byte
}

// DefaultPayload returns the embedded flite build.
func DefaultPayload() Payload {
	return Payload{
		JSName:   "flite.js",
		WasmName: "flite.wasm",
		JS:       fliteJS,
		Wasm:     fliteWasm,
	}
}

// LoadPayload reads a payload pair from external files, keeping the
// base names the remote side will see.
func LoadPayload(jsPath, wasmPath string) (Payload, error) {
	js, err := os.ReadFile(jsPath)
	if err != nil {
		return Payload{}, fmt.Errorf("read js payload: %w", err)
	}
	wasm, err := os.ReadFile(wasmPath)
	if err != nil {
		return Payload{}, fmt.Errorf("read wasm payload: %w", err)
	}
	return Payload{
		JSName:   filepath.Base(jsPath),
		WasmName: filepath.Base(wasmPath),
		JS:       js,
		Wasm:     wasm,
	}, nil
}

// Validate compile-checks the wasm half before any network traffic.
// A payload the runtime cannot compile would fail on every provider
// node, so the run aborts locally instead.
func (p Payload) Validate(ctx context.Context) error {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, p.Wasm)
	if err != nil {
		return fmt.Errorf("invalid wasm payload %s: %w", p.WasmName, err)
	}
	return compiled.Close(ctx)
}
