// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the store has no task with the given id.
var ErrNotFound = errors.New("not found")

// Store defines the interface for task backend operations.
// Commands and the controller never import a backend SDK directly.
type Store interface {
	// ListTasks returns the full collection in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task. The store assigns the id.
	CreateTask(ctx context.Context, task NewTask) error

	// UpdateTask replaces every field of the task with the given id.
	UpdateTask(ctx context.Context, task Task) error

	// DeleteTask deletes a task by id.
	DeleteTask(ctx context.Context, id string) error
}
