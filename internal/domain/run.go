package domain

import "time"

// Run is the historical record of one pipeline invocation. It is a
// log entry only: nothing is ever resumed from it, and the remote task
// handle it mentions is dead by the time the row exists.
type Run struct {
	ID         string
	InputFile  string
	OutputFile string
	Words      int
	Chunks     int
	TaskID     string
	Phase      TaskPhase
	Error      string
	Duration   time.Duration
	CreatedAt  time.Time
}

// Succeeded reports whether the run produced an output file.
func (r Run) Succeeded() bool {
	return r.Phase == PhaseFinished && r.Error == ""
}
