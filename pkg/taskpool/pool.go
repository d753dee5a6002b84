package taskpool

import (
	"context"
)

// Pool is a fixed-size worker execution engine. A bounded set of workers,
// created once at construction and never resized, pulls tasks from a shared
// FIFO queue and executes them. Callers submit tasks, read results through
// futures, and coordinate with the pool via WaitIdle and Shutdown.
type Pool interface {
	// Submit enqueues a task and returns its result handle. One idle worker
	// is woken per submission. Returns ErrPoolClosed once shutdown has begun
	// and ErrNilTask for a nil task.
	Submit(task Task) (Future, error)

	// Size returns the fixed number of workers.
	Size() int

	// Pending returns the number of tasks waiting in the queue. This is a
	// racy snapshot, valid only as an approximation.
	Pending() int

	// WaitIdle blocks until the queue is empty and no worker is executing.
	// It may be called repeatedly and concurrently with Submit, in which
	// case it can observe new work arriving and extend its wait.
	WaitIdle()

	// Shutdown stops the pool and joins every worker. With drain it first
	// waits for all accepted work to finish; without it, tasks still queued
	// are discarded and their futures fail with ErrPoolClosed. Shutdown is
	// idempotent: concurrent and repeated calls all return normally after
	// the pool has stopped, and workers are joined exactly once.
	Shutdown(drain bool)
}

// Config configures a Pool
type Config struct {
	// Workers is the fixed worker count. Must be positive.
	Workers int

	// Logger receives pool lifecycle and task failure logs.
	// Defaults to a stdlib-backed logger.
	Logger Logger

	// Metrics receives instrumentation callbacks. Defaults to a no-op.
	Metrics Metrics

	// BaseContext is passed to every task's Execute. Defaults to
	// context.Background(). It is never cancelled per-task.
	BaseContext context.Context
}
