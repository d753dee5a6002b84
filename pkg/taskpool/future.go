package taskpool

import (
	"context"
	"sync"
)

// Future is the caller-facing handle to a submitted task's outcome. It is
// completed exactly once, by the worker that executed the task (or by the
// shutdown controller for abandoned tasks), and can be read any number of
// times afterwards.
type Future interface {
	// Await blocks until the task completes, then returns its value or
	// failure. ctx bounds only the caller's wait: cancelling it abandons the
	// wait, it does not interrupt the task.
	Await(ctx context.Context) (interface{}, error)

	// IsComplete reports whether the result has been populated (non-blocking).
	IsComplete() bool

	// OnSuccess registers a callback invoked with the value on success.
	// If the future is already complete the callback runs inline.
	OnSuccess(handler func(interface{})) Future

	// OnFailure registers a callback invoked with the error on failure.
	OnFailure(handler func(error)) Future
}

// future implements Future as a one-shot result cell
type future struct {
	done chan struct{}
	once sync.Once

	mu              sync.Mutex
	value           interface{}
	err             error
	successHandlers []func(interface{})
	failureHandlers []func(error)
}

func newFuture() *future {
	return &future{
		done: make(chan struct{}),
	}
}

// complete resolves the future with a value. Later calls to complete or fail
// are no-ops; the slot is written exactly once.
func (f *future) complete(value interface{}) {
	f.once.Do(func() {
		f.mu.Lock()
		f.value = value
		handlers := f.successHandlers
		f.successHandlers = nil
		f.failureHandlers = nil
		close(f.done)
		f.mu.Unlock()

		for _, handler := range handlers {
			handler(value)
		}
	})
}

// fail resolves the future with an error.
func (f *future) fail(err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.err = err
		handlers := f.failureHandlers
		f.successHandlers = nil
		f.failureHandlers = nil
		close(f.done)
		f.mu.Unlock()

		for _, handler := range handlers {
			handler(err)
		}
	})
}

func (f *future) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *future) OnSuccess(handler func(interface{})) Future {
	f.mu.Lock()
	if f.IsComplete() {
		value, err := f.value, f.err
		f.mu.Unlock()
		if err == nil {
			handler(value)
		}
		return f
	}
	f.successHandlers = append(f.successHandlers, handler)
	f.mu.Unlock()
	return f
}

func (f *future) OnFailure(handler func(error)) Future {
	f.mu.Lock()
	if f.IsComplete() {
		err := f.err
		f.mu.Unlock()
		if err != nil {
			handler(err)
		}
		return f
	}
	f.failureHandlers = append(f.failureHandlers, handler)
	f.mu.Unlock()
	return f
}
