package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/chorus-network/chorus/internal/domain"
	"github.com/chorus-network/chorus/internal/infra/sqlite"
	"github.com/chorus-network/chorus/internal/remote"
	"github.com/chorus-network/chorus/internal/task"
	"github.com/chorus-network/chorus/internal/wav"
)

// Options configures one pipeline run.
type Options struct {
	InputFile  string
	OutputFile string
	Subtasks   int

	TaskName       string
	Bid            float64
	Timeout        time.Duration
	SubtaskTimeout time.Duration
	Payload        task.Payload

	WorkspaceRoot string
	KeepWorkspace bool

	Client remote.Client
	Poller remote.Poller

	// OnStart is told the progress-indicator total (in chunk units)
	// once the task has been submitted.
	OnStart func(total int)
	// OnAdvance receives progress-indicator increments in chunk units.
	OnAdvance func(n int)

	// History, when set, records the run after it ends.
	History *sqlite.DB

	// Stderr receives the stage status lines. Defaults to os.Stderr.
	Stderr io.Writer
}

// Run drives the whole pipeline: split, build and submit, wait,
// reassemble. Any stage error aborts the run; no output file is
// produced on failure.
func Run(ctx context.Context, opts Options) (err error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	rec := domain.Run{
		ID:         uuid.New().String(),
		InputFile:  opts.InputFile,
		OutputFile: opts.OutputFile,
		CreatedAt:  time.Now(),
	}
	defer func() {
		if opts.History == nil {
			return
		}
		rec.Duration = time.Since(rec.CreatedAt)
		if err != nil {
			rec.Error = err.Error()
			if errors.Is(err, domain.ErrTaskFailed) {
				rec.Phase = domain.PhaseFailed
			}
		} else {
			rec.Phase = domain.PhaseFinished
		}
		if herr := opts.History.RecordRun(rec); herr != nil {
			fmt.Fprintf(stderr, "warning: %v\n", herr)
		}
	}()

	text, err := os.ReadFile(opts.InputFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintf(stderr, "[1/4] Splitting '%s' into %d subtasks...\n", opts.InputFile, opts.Subtasks)
	chunks, err := Split(string(text), opts.Subtasks)
	if err != nil {
		return fmt.Errorf("split '%s': %w", opts.InputFile, err)
	}
	rec.Words = domain.WordCount(string(text))
	rec.Chunks = len(chunks)

	if err := opts.Payload.Validate(ctx); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "[2/4] Sending task to the compute network...\n")
	ws, err := task.NewWorkspace(opts.WorkspaceRoot, opts.KeepWorkspace)
	if err != nil {
		return err
	}
	defer ws.Close()

	descriptor, segments, err := task.Build(task.BuildConfig{
		Name:           opts.TaskName,
		Bid:            opts.Bid,
		Timeout:        opts.Timeout,
		SubtaskTimeout: opts.SubtaskTimeout,
		Payload:        opts.Payload,
	}, chunks, ws)
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}

	taskID, err := opts.Client.CreateTask(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("submit task: %w", err)
	}
	rec.TaskID = taskID

	fmt.Fprintf(stderr, "[3/4] Waiting on remote synthesis...\n")
	if opts.OnStart != nil {
		opts.OnStart(len(segments))
	}
	if err := opts.Poller.Wait(ctx, opts.Client, taskID, len(segments), opts.OnAdvance); err != nil {
		return fmt.Errorf("task %s: %w", taskID, err)
	}

	fmt.Fprintf(stderr, "[4/4] Combining output into '%s'...\n", opts.OutputFile)
	if err := wav.Combine(segments, opts.OutputFile); err != nil {
		return fmt.Errorf("combine segments: %w", err)
	}

	return nil
}
