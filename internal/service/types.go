// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task record owned by the store.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Toggled returns a copy of t with Completed inverted.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// Draft is unsaved input for a task being composed.
type Draft struct {
	Title       string
	Description string
}

// NewTask is the creation payload sent to the store.
// Completed is always false for new tasks.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
