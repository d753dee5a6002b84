package taskpool

import (
	"time"
)

// Metrics is the instrumentation hook surface of the pool. Implementations
// must be safe for concurrent use; the pool calls these from submitter and
// worker goroutines alike. The prometheus adapter in
// pkg/observability/prometheus implements this interface.
type Metrics interface {
	// TaskSubmitted is called once per accepted task.
	TaskSubmitted()

	// TaskRejected is called when Submit refuses a task (closed pool, nil task).
	TaskRejected()

	// TaskCompleted is called after a task finishes successfully.
	TaskCompleted(d time.Duration)

	// TaskFailed is called after a task finishes with an error or panic.
	TaskFailed(d time.Duration)

	// TaskAbandoned is called for each queued task discarded by Shutdown(false).
	TaskAbandoned()

	// QueueDepth reports the queue length after an enqueue or dequeue.
	QueueDepth(n int)

	// WorkersStarted reports the fixed worker count at construction.
	WorkersStarted(n int)
}

// nopMetrics is the default when no Metrics implementation is configured
type nopMetrics struct{}

func (nopMetrics) TaskSubmitted()              {}
func (nopMetrics) TaskRejected()               {}
func (nopMetrics) TaskCompleted(time.Duration) {}
func (nopMetrics) TaskFailed(time.Duration)    {}
func (nopMetrics) TaskAbandoned()              {}
func (nopMetrics) QueueDepth(int)              {}
func (nopMetrics) WorkersStarted(int)          {}
