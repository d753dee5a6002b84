package taskpool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by New when the configuration is
	// unusable (for example a non-positive worker count).
	ErrInvalidConfiguration = errors.New("taskpool: invalid configuration")

	// ErrPoolClosed is returned by Submit once shutdown has begun. It is also
	// the failure installed into the futures of tasks abandoned by
	// Shutdown(false).
	ErrPoolClosed = errors.New("taskpool: pool is closed")

	// ErrNilTask is returned by Submit when the task is nil.
	ErrNilTask = errors.New("taskpool: task cannot be nil")
)

// TaskError wraps a failure raised inside a submitted task. Failures are
// local to the task that produced them: they surface only through that
// task's Future, never through the worker loop or the pool itself.
type TaskError struct {
	// TaskName is the name the task reported at submission time.
	TaskName string

	// TaskID is the pool-assigned identifier of the task.
	TaskID string

	cause error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("taskpool: task %s (%s) failed: %v", e.TaskName, e.TaskID, e.cause)
}

// Unwrap returns the underlying failure so errors.Is/errors.As keep working.
func (e *TaskError) Unwrap() error {
	return e.cause
}
