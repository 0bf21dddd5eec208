// Package controller holds the task list state and keeps it in step with
// the task store.
//
// The controller owns two pieces of state: the last fetched snapshot of the
// store's tasks and a draft for the next task to create. Every mutating
// operation is followed by a full reload; the snapshot is never patched
// locally. Operations may run concurrently. Each Load is numbered when it
// is issued and a response older than the last applied one is dropped, so
// the most recently issued Load wins regardless of completion order.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"tasklist/internal/service"
)

// ErrEmptyTitle is returned by Create when the draft has no title.
// No request is sent in that case.
var ErrEmptyTitle = errors.New("title required")

// ErrTaskNotLoaded is returned by lookups that miss the current snapshot.
var ErrTaskNotLoaded = errors.New("task not found")

// DraftPatch is a partial draft update. Nil fields are left unchanged.
type DraftPatch struct {
	Title       *string
	Description *string
}

// Controller is the task list controller.
type Controller struct {
	store  service.Store
	logger *log.Logger

	mu      sync.Mutex
	tasks   []service.Task
	draft   service.Draft
	issued  uint64 // sequence number of the last issued Load
	applied uint64 // sequence number of the last applied Load
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller over store with an empty snapshot and draft.
func New(store service.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.New(io.Discard, "", 0),
		tasks:  []service.Task{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tasks returns a copy of the current snapshot.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Draft returns the current draft.
func (c *Controller) Draft() service.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// UpdateDraft merges patch into the draft. It has no network effect.
func (c *Controller) UpdateDraft(patch DraftPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if patch.Title != nil {
		c.draft.Title = *patch.Title
	}
	if patch.Description != nil {
		c.draft.Description = *patch.Description
	}
}

// Find returns the snapshot task with the given id.
func (c *Controller) Find(id string) (service.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotLoaded, id)
}

// At returns the snapshot task at the 1-based position n.
func (c *Controller) At(n int) (service.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > len(c.tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", n)
	}
	return c.tasks[n-1], nil
}

// Load replaces the snapshot with the store's collection. On failure the
// snapshot is left as it was.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	c.logger.Printf("load #%d: requesting tasks", seq)
	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		c.logger.Printf("load #%d: %v", seq, err)
		return fmt.Errorf("load tasks: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.logger.Printf("load #%d: dropped, #%d already applied", seq, c.applied)
		return nil
	}
	c.applied = seq
	c.tasks = append([]service.Task(nil), tasks...)
	if c.tasks == nil {
		c.tasks = []service.Task{}
	}
	c.logger.Printf("load #%d: applied %d task(s)", seq, len(c.tasks))
	return nil
}

// Create submits the draft as a new task, clears the draft and reloads.
// An empty title returns ErrEmptyTitle without contacting the store. The
// draft is cleared only if it was not edited while the request ran.
func (c *Controller) Create(ctx context.Context) error {
	draft := c.Draft()
	if draft.Title == "" {
		return ErrEmptyTitle
	}

	c.logger.Printf("create %q", draft.Title)
	err := c.store.CreateTask(ctx, service.NewTask{
		Title:       draft.Title,
		Description: draft.Description,
		Completed:   false,
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	c.mu.Lock()
	if c.draft == draft {
		c.draft = service.Draft{}
	}
	c.mu.Unlock()

	return c.Load(ctx)
}

// Delete removes the task with the given id and reloads.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.logger.Printf("delete %s", id)
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return c.Load(ctx)
}

// ToggleComplete sends task back with Completed inverted and reloads.
// All other fields are sent as given.
func (c *Controller) ToggleComplete(ctx context.Context, task service.Task) error {
	next := task.Toggled()
	c.logger.Printf("update %s: completed=%t", task.ID, next.Completed)
	if err := c.store.UpdateTask(ctx, next); err != nil {
		return fmt.Errorf("update task %s: %w", task.ID, err)
	}
	return c.Load(ctx)
}
