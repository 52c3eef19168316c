package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/chorus-network/chorus/internal/domain"
	"github.com/chorus-network/chorus/internal/infra/sqlite"
	"github.com/chorus-network/chorus/internal/remote"
	"github.com/chorus-network/chorus/internal/task"
	"github.com/chorus-network/chorus/internal/wav"
)

var testSpec = wav.Spec{SampleRate: 16000, BitDepth: 16, Channels: 1}

// fakeRemote plays the compute network: it accepts one task and, on
// the first status poll, materializes one segment per subtask before
// reporting Finished.
type fakeRemote struct {
	reject     bool
	descriptor *task.Descriptor
	segSpec    func(index int) wav.Spec
}

func (f *fakeRemote) CreateTask(ctx context.Context, d *task.Descriptor) (string, error) {
	if f.reject {
		return "", fmt.Errorf("%w: no thanks", domain.ErrRemoteRejected)
	}
	f.descriptor = d
	return "task-abc", nil
}

func (f *fakeRemote) GetTask(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	for name := range f.descriptor.Options.Subtasks {
		index, err := domain.SubtaskIndex(name)
		if err != nil {
			return domain.TaskStatus{}, err
		}
		spec := testSpec
		if f.segSpec != nil {
			spec = f.segSpec(index)
		}
		path := filepath.Join(f.descriptor.Options.OutputDir, name, "in.wav")
		if err := wav.WriteFile(path, spec, segmentSamples(index)); err != nil {
			return domain.TaskStatus{}, err
		}
	}
	return domain.TaskStatus{Progress: 1.0, Phase: domain.PhaseFinished}, nil
}

func segmentSamples(index int) []int16 {
	return []int16{int16(index*10 + 1), int16(index*10 + 2)}
}

func testOptions(t *testing.T, client remote.Client) Options {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(input, []byte("one two three four five six"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	return Options{
		InputFile:      input,
		OutputFile:     filepath.Join(dir, "out.wav"),
		Subtasks:       3,
		TaskName:       "chorus",
		Bid:            1,
		Timeout:        10 * time.Minute,
		SubtaskTimeout: 10 * time.Minute,
		Payload:        task.DefaultPayload(),
		WorkspaceRoot:  dir,
		Client:         client,
		Poller:         remote.Poller{Interval: time.Millisecond},
		Stderr:         &bytes.Buffer{},
	}
}

func TestRunEndToEnd(t *testing.T) {
	opts := testOptions(t, &fakeRemote{})

	var startedWith int
	var advanced int
	opts.OnStart = func(total int) { startedWith = total }
	opts.OnAdvance = func(n int) { advanced += n }

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	if startedWith != 3 {
		t.Errorf("OnStart total = %d, want 3", startedWith)
	}
	if advanced != 3 {
		t.Errorf("advanced = %d, want 3", advanced)
	}

	out, err := wav.ReadFile(opts.OutputFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := []int16{1, 2, 11, 12, 21, 22} // segments in chunk-index order
	if !reflect.DeepEqual(out.Samples, want) {
		t.Errorf("samples = %v, want %v", out.Samples, want)
	}
	if out.Spec != testSpec {
		t.Errorf("spec = %+v, want %+v", out.Spec, testSpec)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	opts := testOptions(t, &fakeRemote{})

	history, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer history.Close()
	opts.History = history

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	runs, err := history.RecentRuns(5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	r := runs[0]
	if !r.Succeeded() || r.TaskID != "task-abc" || r.Chunks != 3 || r.Words != 6 {
		t.Errorf("recorded run = %+v", r)
	}
}

func TestRunSubmissionRejected(t *testing.T) {
	opts := testOptions(t, &fakeRemote{reject: true})

	err := Run(context.Background(), opts)
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("error = %v, want ErrRemoteRejected", err)
	}
	if _, statErr := os.Stat(opts.OutputFile); !os.IsNotExist(statErr) {
		t.Error("output file produced despite failed submission")
	}
}

func TestRunFormatMismatchFailsRun(t *testing.T) {
	client := &fakeRemote{segSpec: func(index int) wav.Spec {
		if index == 1 {
			return wav.Spec{SampleRate: 44100, BitDepth: 16, Channels: 2}
		}
		return testSpec
	}}
	opts := testOptions(t, client)

	err := Run(context.Background(), opts)
	if !errors.Is(err, domain.ErrFormatMismatch) {
		t.Fatalf("error = %v, want ErrFormatMismatch", err)
	}
	if _, statErr := os.Stat(opts.OutputFile); !os.IsNotExist(statErr) {
		t.Error("output file produced despite format mismatch")
	}
}

func TestRunEmptyInputFails(t *testing.T) {
	opts := testOptions(t, &fakeRemote{})
	if err := os.WriteFile(opts.InputFile, []byte("   \n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	err := Run(context.Background(), opts)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
}
