// Package mocknet runs a stub compute node implementing the two RPC
// operations the pipeline consumes: task creation and status queries.
// It simulates remote progress one step per poll and, when a task
// finishes, materializes placeholder beep segments into the task's
// declared output directories so a local end-to-end run completes.
// It is a status simulator, not a compute engine: no text is ever
// synthesized.
package mocknet

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chorus-network/chorus/internal/domain"
	"github.com/chorus-network/chorus/internal/task"
	"github.com/chorus-network/chorus/internal/wav"
)

// Server is an in-memory stub compute node.
type Server struct {
	mu    sync.Mutex
	tasks map[string]*simTask
}

type simTask struct {
	polls     int
	subtasks  []string // subtask names, index order
	outputDir string
	finished  bool
}

// NewServer creates a stub node with no tasks.
func NewServer() *Server {
	return &Server{tasks: make(map[string]*simTask)}
}

// Handler returns the chi router serving the RPC boundary plus
// /health and Prometheus /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/comp/tasks", s.handleCreate)
	r.Get("/comp/tasks/{id}", s.handleStatus)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var d task.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "malformed descriptor: "+err.Error())
		return
	}
	if d.Type != "wasm" {
		writeError(w, http.StatusBadRequest, "unsupported task type: "+d.Type)
		return
	}
	if len(d.Options.Subtasks) == 0 {
		writeError(w, http.StatusBadRequest, "descriptor declares no subtasks")
		return
	}

	names := make([]string, 0, len(d.Options.Subtasks))
	for name := range d.Options.Subtasks {
		if _, err := domain.SubtaskIndex(name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := domain.SubtaskIndex(names[i])
		b, _ := domain.SubtaskIndex(names[j])
		return a < b
	})

	id := uuid.New().String()
	s.mu.Lock()
	s.tasks[id] = &simTask{subtasks: names, outputDir: d.Options.OutputDir}
	s.mu.Unlock()

	TasksCreated.Inc()
	slog.Info("task accepted", "task", id, "subtasks", len(names))
	writeJSON(w, http.StatusCreated, map[string]string{"task_id": id})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "unknown task: "+id)
		return
	}

	StatusPolls.Inc()
	t.polls++

	// One subtask completes per poll.
	progress := math.Min(float64(t.polls)/float64(len(t.subtasks)), 1)
	phase := domain.PhaseRunning
	if progress >= 1 {
		phase = domain.PhaseFinished
	}
	justFinished := phase == domain.PhaseFinished && !t.finished
	if justFinished {
		t.finished = true
	}
	st := domain.TaskStatus{Progress: progress, Phase: phase}
	subtasks, outputDir := t.subtasks, t.outputDir
	s.mu.Unlock()

	if justFinished {
		TasksFinished.Inc()
		s.materializeSegments(id, subtasks, outputDir)
	}

	writeJSON(w, http.StatusOK, st)
}

// materializeSegments writes a short beep per subtask so the local
// reassembly stage has real PCM16 files to combine.
func (s *Server) materializeSegments(id string, subtasks []string, outputDir string) {
	if outputDir == "" {
		return
	}
	for i, name := range subtasks {
		dir := filepath.Join(outputDir, name)
		if _, err := os.Stat(dir); err != nil {
			slog.Warn("segment dir missing, skipping", "task", id, "subtask", name)
			continue
		}
		path := filepath.Join(dir, "in.wav")
		if err := wav.WriteFile(path, beepSpec, beep(i)); err != nil {
			slog.Warn("write segment", "task", id, "subtask", name, "err", err)
		}
	}
}

var beepSpec = wav.Spec{SampleRate: 16000, BitDepth: 16, Channels: 1}

// beep generates ~150ms of a sine tone, pitched by subtask index so
// concatenation order is audible.
func beep(index int) []int16 {
	const samples = 2400
	freq := 440.0 * (1 + float64(index)*0.25)
	out := make([]int16, samples)
	for i := range out {
		out[i] = int16(3000 * math.Sin(2*math.Pi*freq*float64(i)/float64(beepSpec.SampleRate)))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
