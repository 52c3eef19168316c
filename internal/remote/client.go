// Package remote is the thin boundary to the compute network: one
// task-creation exchange, then repeated status polls against the
// returned task handle. The network's own scheduling and execution are
// opaque to this side.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chorus-network/chorus/internal/domain"
	"github.com/chorus-network/chorus/internal/task"
)

// Client is the two-method RPC surface the pipeline consumes. Tests
// substitute an in-process stub.
type Client interface {
	// CreateTask submits a descriptor and returns the opaque task handle.
	CreateTask(ctx context.Context, d *task.Descriptor) (string, error)
	// GetTask reports the current status of a previously created task.
	GetTask(ctx context.Context, taskID string) (domain.TaskStatus, error)
}

// HTTPClient talks JSON over HTTP to a compute network node.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds a client for the node at address:port.
func NewHTTPClient(address string, port int) *HTTPClient {
	return &HTTPClient{
		baseURL: fmt.Sprintf("http://%s:%d", address, port),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type createResponse struct {
	TaskID string `json:"task_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateTask performs exactly one request/response exchange; it does
// not retry.
func (c *HTTPClient) CreateTask(ctx context.Context, d *task.Descriptor) (string, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode descriptor: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/comp/tasks", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: %s", domain.ErrRemoteRejected, readError(resp))
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if out.TaskID == "" {
		return "", fmt.Errorf("%w: empty task id", domain.ErrRemoteRejected)
	}
	return out.TaskID, nil
}

// GetTask queries the status of taskID.
func (c *HTTPClient) GetTask(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/comp/tasks/"+taskID, nil)
	if err != nil {
		return domain.TaskStatus{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.TaskStatus{}, fmt.Errorf("get task %s: %w", taskID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.TaskStatus{}, fmt.Errorf("get task %s: %s", taskID, readError(resp))
	}

	var st domain.TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return domain.TaskStatus{}, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
