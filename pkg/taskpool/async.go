package taskpool

import (
	"context"
	"fmt"
)

// FutureT is a type-safe view over a Future using Go generics.
// This is a struct, not an interface, because Go doesn't allow type
// parameters on interface methods.
type FutureT[T any] struct {
	future Future
}

// Await waits for the task to complete and returns the typed result
func (f *FutureT[T]) Await(ctx context.Context) (T, error) {
	var zero T
	value, err := f.future.Await(ctx)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("taskpool: result type %T does not match requested type", value)
	}
	return typed, nil
}

// IsComplete reports whether the result has been populated (non-blocking).
func (f *FutureT[T]) IsComplete() bool {
	return f.future.IsComplete()
}

// SubmitFunc submits fn to the pool and returns a typed future for its
// result. Arguments are captured by the closure at call time.
func SubmitFunc[T any](p Pool, name string, fn func(ctx context.Context) (T, error)) (*FutureT[T], error) {
	f, err := p.Submit(NewNamedTask(name, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	}))
	if err != nil {
		return nil, err
	}
	return &FutureT[T]{future: f}, nil
}

// Then chains a success handler, returning a future with the transformed
// type. A failure in f or in fn fails the returned future.
func Then[T any, R any](f *FutureT[T], fn func(T) (R, error)) *FutureT[R] {
	mapped := newFuture()

	f.future.OnSuccess(func(value interface{}) {
		typed, ok := value.(T)
		if !ok {
			mapped.fail(fmt.Errorf("taskpool: result type %T does not match requested type", value))
			return
		}
		next, err := fn(typed)
		if err != nil {
			mapped.fail(err)
		} else {
			mapped.complete(next)
		}
	})
	f.future.OnFailure(func(err error) {
		mapped.fail(err)
	})

	return &FutureT[R]{future: mapped}
}

// All waits for every future and collects the results in argument order.
func All[T any](ctx context.Context, futures ...*FutureT[T]) ([]T, error) {
	results := make([]T, 0, len(futures))
	for _, f := range futures {
		value, err := f.Await(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, value)
	}
	return results, nil
}
