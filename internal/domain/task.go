// Package domain holds the core types shared across the chorus pipeline:
// text chunks, remote task phases, and status snapshots.
// Domain types are pure and carry no infrastructure dependency.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskPhase tracks the remote task lifecycle as reported by the
// compute network.
type TaskPhase string

const (
	PhaseCreated  TaskPhase = "Created"
	PhaseRunning  TaskPhase = "Running"
	PhaseFinished TaskPhase = "Finished"
	PhaseFailed   TaskPhase = "Failed"
	PhaseAborted  TaskPhase = "Aborted"
	PhaseTimeout  TaskPhase = "Timeout"
)

// Terminal returns true if the phase is final and no further polls
// will change it.
func (p TaskPhase) Terminal() bool {
	switch p {
	case PhaseFinished, PhaseFailed, PhaseAborted, PhaseTimeout:
		return true
	}
	return false
}

// Failure returns true for terminal phases other than Finished.
func (p TaskPhase) Failure() bool {
	return p.Terminal() && p != PhaseFinished
}

// TaskStatus is one status-poll snapshot. Progress is a fraction in
// [0.0, 1.0]; it is expected (but not enforced) to be monotonically
// non-decreasing across polls.
type TaskStatus struct {
	Progress float64   `json:"progress"`
	Phase    TaskPhase `json:"status"`
}

// Chunk is one ordered, contiguous slice of the input text assigned to
// exactly one remote subtask. Index is 0-based and contiguous in
// splitting order.
type Chunk struct {
	Index int
	Text  string
}

const subtaskPrefix = "subtask"

// SubtaskName derives the subtask name from the chunk index.
// The mapping is injective: the index is recoverable via SubtaskIndex.
func (c Chunk) SubtaskName() string {
	return subtaskPrefix + strconv.Itoa(c.Index)
}

// SubtaskIndex recovers the chunk index from a subtask name.
func SubtaskIndex(name string) (int, error) {
	rest, ok := strings.CutPrefix(name, subtaskPrefix)
	if !ok {
		return 0, fmt.Errorf("not a subtask name: %q", name)
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("not a subtask name: %q", name)
	}
	return i, nil
}

// WordCount counts whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
