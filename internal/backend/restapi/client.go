// Package restapi implements the service.Store interface over a plain
// JSON REST task collection.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

const (
	// CollectionPath is the path of the task collection below the base URL.
	CollectionPath = "/api/tasks"

	// DefaultTimeout is used when the config carries no timeout.
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is quoted back.
	maxErrorBody = 512
)

// Client implements service.Store against a REST task collection.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
}

// New creates a REST client from config.
func New(cfg *config.Config) (*Client, error) {
	return NewWithHTTPClient(cfg.BaseURL, cfg.Timeout, http.DefaultClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base url required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url: unsupported scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		timeout: timeout,
	}, nil
}

// ListTasks fetches the whole collection.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.do(ctx, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, err
	}

	// An empty body (204) is an empty collection.
	if len(bytes.TrimSpace(body)) == 0 {
		return []service.Task{}, nil
	}

	var tasks []service.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask posts a new task. The created record in the response is not used.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.do(ctx, http.MethodPost, c.collectionURL(), task)
	return err
}

// UpdateTask replaces the task at /{id} with the full record.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) error {
	if task.ID == "" {
		return errors.New("task id required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.do(ctx, http.MethodPut, c.taskURL(task.ID), task)
	return err
}

// DeleteTask deletes the task at /{id}.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("task id required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.do(ctx, http.MethodDelete, c.taskURL(id), nil)
	return err
}

func (c *Client) collectionURL() string {
	return c.baseURL + CollectionPath
}

func (c *Client) taskURL(id string) string {
	return c.baseURL + CollectionPath + "/" + url.PathEscape(id)
}

// do sends one request and returns the response body for 2xx statuses.
func (c *Client) do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", method, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(method, target, resp.StatusCode, body)
	}
	return body, nil
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(method, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: request timed out", method, target)
	}
	return fmt.Errorf("%s %s: %w", method, target, err)
}

func statusError(method, target string, code int, body []byte) error {
	if code == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, target, service.ErrNotFound)
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		return fmt.Errorf("%s %s: unexpected status %d", method, target, code)
	}
	return fmt.Errorf("%s %s: unexpected status %d: %s", method, target, code, msg)
}
