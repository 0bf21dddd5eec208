// Package googletasks implements the service.Store interface on top of a
// single Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

const (
	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Store using the Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a Google Tasks client from the credentials in the config dir.
// Requires oauth_client.json and token.json to exist; obtaining them is not
// handled here.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("token.json not found in %s", cfg.Dir)
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes expired access tokens.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		listID:  cfg.GoogleListID,
		timeout: cfg.Timeout,
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		listID = config.DefaultGoogleListID
	}
	return &Client{svc: svc, listID: listID, timeout: config.DefaultTimeout}, nil
}

// ListTasks returns every task of the list, completed and hidden included,
// in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, fromAPI(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTask inserts a task at the top of the list.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  task.Title,
		Notes:  task.Description,
		Status: status(task.Completed),
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// UpdateTask replaces title, notes and status of the task.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := &tasks.Task{
		Id:     task.ID,
		Title:  task.Title,
		Notes:  task.Description,
		Status: status(task.Completed),
	}
	// Reopening a task requires clearing its completion time.
	if !task.Completed {
		body.NullFields = []string{"Completed"}
	}

	_, err := c.svc.Tasks.Update(c.listID, task.ID, body).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

func fromAPI(t *tasks.Task) service.Task {
	return service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Completed:   t.Status == statusCompleted,
	}
}

func status(completed bool) string {
	if completed {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError maps API status codes onto store errors. Transport and other
// errors are returned wrapped so the cause is kept.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("google tasks: %w", err)
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("token expired or revoked: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", service.ErrNotFound, err)
	}
	return fmt.Errorf("google tasks: %w", err)
}
