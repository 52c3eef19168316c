package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chorus-network/chorus/internal/domain"
)

const (
	// Per-subtask file names as seen by the remote executable.
	inputFileName  = "in.txt"
	outputFileName = "in.wav"
)

// BuildConfig carries the static descriptor fields that do not depend
// on the chunk sequence.
type BuildConfig struct {
	Name           string
	Bid            float64
	Timeout        time.Duration
	SubtaskTimeout time.Duration
	Payload        Payload
}

// Build materializes the workspace for chunks and constructs the task
// descriptor. The returned path slice names each subtask's expected
// output segment, ordered by ascending chunk index; that ordering is
// the sole channel by which reassembly recovers sequencing.
func Build(cfg BuildConfig, chunks []domain.Chunk, ws *Workspace) (*Descriptor, []string, error) {
	inputDir := ws.InputDir()
	outputDir := ws.OutputDir()
	for _, dir := range []string{inputDir, outputDir} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(filepath.Join(inputDir, cfg.Payload.JSName), cfg.Payload.JS, 0o644); err != nil {
		return nil, nil, fmt.Errorf("write payload: %w", err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, cfg.Payload.WasmName), cfg.Payload.Wasm, 0o644); err != nil {
		return nil, nil, fmt.Errorf("write payload: %w", err)
	}

	subtasks := make(map[string]Subtask, len(chunks))
	segments := make([]string, 0, len(chunks))

	for _, chunk := range chunks {
		name := chunk.SubtaskName()

		subtaskIn := filepath.Join(inputDir, name)
		if err := os.Mkdir(subtaskIn, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", subtaskIn, err)
		}
		if err := os.WriteFile(filepath.Join(subtaskIn, inputFileName), []byte(chunk.Text), 0o644); err != nil {
			return nil, nil, fmt.Errorf("write chunk %d: %w", chunk.Index, err)
		}

		subtaskOut := filepath.Join(outputDir, name)
		if err := os.Mkdir(subtaskOut, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", subtaskOut, err)
		}

		subtasks[name] = Subtask{
			ExecArgs:        []string{inputFileName, outputFileName},
			OutputFilePaths: []string{outputFileName},
		}
		segments = append(segments, filepath.Join(subtaskOut, outputFileName))
	}

	d := &Descriptor{
		Type:           "wasm",
		Name:           cfg.Name,
		Bid:            cfg.Bid,
		SubtaskTimeout: Timeout(cfg.SubtaskTimeout),
		Timeout:        Timeout(cfg.Timeout),
		Options: Options{
			JSName:    cfg.Payload.JSName,
			WasmName:  cfg.Payload.WasmName,
			InputDir:  inputDir,
			OutputDir: outputDir,
			Subtasks:  subtasks,
		},
	}

	if err := writeDescriptor(ws.DescriptorPath(), d); err != nil {
		return nil, nil, err
	}
	return d, segments, nil
}

func writeDescriptor(path string, d *Descriptor) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	return nil
}
