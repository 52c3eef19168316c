// Package task builds the serializable task descriptor submitted to the
// compute network, together with the on-disk workspace the remote side
// reads inputs from and writes segments into.
package task

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Workspace is the per-run directory tree exclusively owned by the
// pipeline. It is created on entry and removed by Close on every exit
// path unless keep is set.
//
//	<root>/chorus_<timestamp>_<rand>/
//	  in/   payload blobs + subtask<i>/in.txt
//	  out/  subtask<i>/in.wav (produced remotely)
//	  task.json
type Workspace struct {
	Root string
	keep bool
}

// NewWorkspace creates a uniquely named workspace under parent
// (the OS temp dir when parent is empty).
func NewWorkspace(parent string, keep bool) (*Workspace, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	root, err := os.MkdirTemp(parent, fmt.Sprintf("chorus_%d_", time.Now().Unix()))
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Root: root, keep: keep}, nil
}

// InputDir is where payload blobs and subtask input files live.
func (w *Workspace) InputDir() string { return filepath.Join(w.Root, "in") }

// OutputDir is where the remote side materializes segments.
func (w *Workspace) OutputDir() string { return filepath.Join(w.Root, "out") }

// DescriptorPath is the location of the serialized task.json.
func (w *Workspace) DescriptorPath() string { return filepath.Join(w.Root, "task.json") }

// Close removes the workspace tree, unless it was created with keep.
func (w *Workspace) Close() error {
	if w.keep {
		return nil
	}
	return os.RemoveAll(w.Root)
}
