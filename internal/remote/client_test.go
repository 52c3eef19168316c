package remote

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/chorus-network/chorus/internal/domain"
	"github.com/chorus-network/chorus/internal/mocknet"
	"github.com/chorus-network/chorus/internal/task"
)

func clientFor(t *testing.T, rawURL string) *HTTPClient {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return NewHTTPClient(host, port)
}

func minimalDescriptor() *task.Descriptor {
	return &task.Descriptor{
		Type:           "wasm",
		Name:           "chorus",
		Bid:            1,
		Timeout:        task.Timeout(10 * time.Minute),
		SubtaskTimeout: task.Timeout(10 * time.Minute),
		Options: task.Options{
			JSName:   "flite.js",
			WasmName: "flite.wasm",
			Subtasks: map[string]task.Subtask{
				"subtask0": {ExecArgs: []string{"in.txt", "in.wav"}, OutputFilePaths: []string{"in.wav"}},
				"subtask1": {ExecArgs: []string{"in.txt", "in.wav"}, OutputFilePaths: []string{"in.wav"}},
			},
		},
	}
}

func TestCreateAndGetTask(t *testing.T) {
	srv := httptest.NewServer(mocknet.NewServer().Handler())
	defer srv.Close()

	c := clientFor(t, srv.URL)
	ctx := context.Background()

	id, err := c.CreateTask(ctx, minimalDescriptor())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("empty task id")
	}

	st, err := c.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Progress <= 0 || st.Progress > 1 {
		t.Errorf("progress = %v, want (0, 1]", st.Progress)
	}
}

func TestCreateTaskRejected(t *testing.T) {
	srv := httptest.NewServer(mocknet.NewServer().Handler())
	defer srv.Close()

	d := minimalDescriptor()
	d.Type = "docker"

	_, err := clientFor(t, srv.URL).CreateTask(context.Background(), d)
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("error = %v, want ErrRemoteRejected", err)
	}
}

func TestCreateTaskUnavailable(t *testing.T) {
	srv := httptest.NewServer(mocknet.NewServer().Handler())
	srv.Close() // nothing listening anymore

	_, err := clientFor(t, srv.URL).CreateTask(context.Background(), minimalDescriptor())
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("error = %v, want ErrRemoteUnavailable", err)
	}
}

func TestGetTaskUnknown(t *testing.T) {
	srv := httptest.NewServer(mocknet.NewServer().Handler())
	defer srv.Close()

	if _, err := clientFor(t, srv.URL).GetTask(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown task")
	}
}
