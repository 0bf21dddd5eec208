// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"tasklist/internal/service"
)

// FakeStore is an in-memory implementation of service.Store for testing.
type FakeStore struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// IDFunc assigns ids to created tasks. Defaults to "1", "2", ...
	IDFunc func() string

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewFakeStore creates an empty FakeStore with sequential ids.
func NewFakeStore() *FakeStore {
	f := &FakeStore{}
	f.IDFunc = f.sequentialID
	return f
}

// NewUUIDFakeStore creates an empty FakeStore that assigns random UUIDs,
// like a document store would.
func NewUUIDFakeStore() *FakeStore {
	f := &FakeStore{}
	f.IDFunc = uuid.NewString
	return f
}

// sequentialID is called with f.mu held.
func (f *FakeStore) sequentialID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

// AddTask seeds a task with a fixed id.
func (f *FakeStore) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
	if n, err := strconv.Atoi(task.ID); err == nil && n > f.nextID {
		f.nextID = n
	}
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeStore) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the total number of store calls made.
func (f *FakeStore) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ListCalls + f.CreateCalls + f.UpdateCalls + f.DeleteCalls
}

// ListTasks implements service.Store.
func (f *FakeStore) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Store.
func (f *FakeStore) CreateTask(ctx context.Context, task service.NewTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	id := f.IDFunc()
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	})
	return nil
}

// UpdateTask implements service.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, task service.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
