// Package client provides a Go client for the Scoutflow console API. Responses
// pass through the same tolerant boolean decoding as the server, so callers
// only ever see native booleans.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/scoutflow/scoutflow/pkg/models"
)

const defaultTimeout = 30 * time.Second

// ErrNotFound is returned when the requested workflow or run does not exist.
var ErrNotFound = errors.New("not found")

// TransportError wraps a non-2xx response, keeping the status code and the
// problem detail the server sent.
type TransportError struct {
	StatusCode int
	Detail     string
}

func (e *TransportError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Detail)
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client talks to a Scoutflow API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for the API server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListWorkflows returns all workflow definitions.
func (c *Client) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	var workflows []models.Workflow
	if err := c.do(ctx, http.MethodGet, "/workflows", nil, &workflows); err != nil {
		return nil, err
	}

	return workflows, nil
}

// GetWorkflow returns one workflow by ID.
func (c *Client) GetWorkflow(ctx context.Context, id int64) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := c.do(ctx, http.MethodGet, "/workflows/"+formatID(id), nil, &workflow); err != nil {
		return nil, err
	}

	return &workflow, nil
}

// CreateWorkflow submits a new workflow definition.
func (c *Client) CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	var created models.Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows", workflow, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateWorkflow replaces the workflow's editable fields.
func (c *Client) UpdateWorkflow(ctx context.Context, id int64, workflow *models.Workflow) (*models.Workflow, error) {
	var updated models.Workflow
	if err := c.do(ctx, http.MethodPatch, "/workflows/"+formatID(id), workflow, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteWorkflow removes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/workflows/"+formatID(id), nil, nil)
}

// ListWorkflowRuns returns the run history of a workflow.
func (c *Client) ListWorkflowRuns(ctx context.Context, workflowID int64) ([]models.WorkflowRun, error) {
	var runs []models.WorkflowRun
	if err := c.do(ctx, http.MethodGet, "/workflows/"+formatID(workflowID)+"/runs", nil, &runs); err != nil {
		return nil, err
	}

	return runs, nil
}

// GetRun returns one run by ID.
func (c *Client) GetRun(ctx context.Context, id int64) (*models.WorkflowRun, error) {
	var run models.WorkflowRun
	if err := c.do(ctx, http.MethodGet, "/runs/"+formatID(id), nil, &run); err != nil {
		return nil, err
	}

	return &run, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{
			StatusCode: resp.StatusCode,
			Detail:     problemDetail(resp.Body),
		}
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// problemDetail extracts the detail field of an RFC 7807 problem response.
func problemDetail(body io.Reader) string {
	var problem struct {
		Detail string `json:"detail"`
	}

	if err := json.NewDecoder(body).Decode(&problem); err != nil {
		return ""
	}

	return problem.Detail
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
