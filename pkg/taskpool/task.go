package taskpool

import (
	"context"
)

// Task represents a unit of deferred work that can be executed by the pool.
// Arguments are bound at submission time by closing over them; the pool only
// ever sees the boxed, argument-free form.
type Task interface {
	// Execute performs the task work and produces its result.
	// ctx is the pool's base context; it is not cancelled per-task.
	Execute(ctx context.Context) (interface{}, error)

	// Name returns a human-readable name for the task (for logging/tracing)
	Name() string
}

// TaskFunc is a function type that implements Task
// Allows plain functions to be submitted without creating a struct
type TaskFunc func(ctx context.Context) (interface{}, error)

// Execute implements Task interface for TaskFunc
func (f TaskFunc) Execute(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Name returns a default name for TaskFunc
func (f TaskFunc) Name() string {
	return "TaskFunc"
}

// NamedTask wraps a TaskFunc with a custom name
type NamedTask struct {
	name string
	task TaskFunc
}

// NewNamedTask creates a new NamedTask
func NewNamedTask(name string, task TaskFunc) *NamedTask {
	return &NamedTask{
		name: name,
		task: task,
	}
}

// Execute implements Task interface
func (nt *NamedTask) Execute(ctx context.Context) (interface{}, error) {
	return nt.task(ctx)
}

// Name returns the task name
func (nt *NamedTask) Name() string {
	return nt.name
}
