package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────

var (
	// Splitter errors
	ErrEmptyInput    = errors.New("input text contains no words")
	ErrBadChunkCount = errors.New("subtask count must be at least 1")

	// Remote errors
	ErrRemoteUnavailable = errors.New("compute network unreachable")
	ErrRemoteRejected    = errors.New("task rejected by compute network")
	ErrTaskFailed        = errors.New("remote task did not finish")
	ErrPollExhausted     = errors.New("status polling failed too many times")

	// Reassembly errors
	ErrFormatMismatch  = errors.New("segment audio format differs from first segment")
	ErrNotWave         = errors.New("not a RIFF/WAVE file")
	ErrUnsupportedWave = errors.New("unsupported WAVE encoding (PCM16 only)")
)
