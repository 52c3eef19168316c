package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timeout is a duration serialized in the compute network's
// "HH:MM:SS" wire format.
type Timeout time.Duration

// MarshalJSON encodes the timeout as an "HH:MM:SS" string.
func (t Timeout) MarshalJSON() ([]byte, error) {
	d := time.Duration(t)
	if d < 0 {
		return nil, fmt.Errorf("negative timeout %v", d)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return json.Marshal(fmt.Sprintf("%02d:%02d:%02d", h, m, s))
}

// UnmarshalJSON decodes an "HH:MM:SS" string.
func (t *Timeout) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var h, m, s int
	if _, err := fmt.Sscanf(raw, "%d:%d:%d", &h, &m, &s); err != nil {
		return fmt.Errorf("bad timeout %q: %w", raw, err)
	}
	*t = Timeout(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
	return nil
}

// Subtask describes one remote work unit: the arguments passed to the
// payload executable and the output files it must declare.
type Subtask struct {
	ExecArgs        []string `json:"exec_args"`
	OutputFilePaths []string `json:"output_file_paths"`
}

// Options carries the wasm-task specific half of the descriptor.
type Options struct {
	JSName    string             `json:"js_name"`
	WasmName  string             `json:"wasm_name"`
	InputDir  string             `json:"input_dir"`
	OutputDir string             `json:"output_dir"`
	Subtasks  map[string]Subtask `json:"subtasks"`
}

// Descriptor is the complete, serializable specification of all
// subtasks submitted as one unit to the compute network. Built once,
// immutable thereafter.
type Descriptor struct {
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	Bid            float64 `json:"bid"`
	SubtaskTimeout Timeout `json:"subtask_timeout"`
	Timeout        Timeout `json:"timeout"`
	Options        Options `json:"options"`
}
