package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DefaultRegistry is the default Prometheus registry
	DefaultRegistry = prometheus.NewRegistry()

	// DefaultRegisterer is the default Prometheus registerer
	DefaultRegisterer = prometheus.WrapRegistererWith(prometheus.Labels{"service": "taskpool"}, DefaultRegistry)

	metricsOnce sync.Once
	metrics     *Metrics
)

// Metrics holds all Prometheus metrics for a worker pool
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksFailed    prometheus.Counter
	TasksRejected  prometheus.Counter
	TasksAbandoned prometheus.Counter

	QueueDepth prometheus.Gauge
	Workers    prometheus.Gauge

	TaskDuration prometheus.Histogram
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics(DefaultRegisterer)
	})
	return metrics
}

// NewMetrics creates a new metrics collection registered with registerer
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = DefaultRegisterer
	}

	return &Metrics{
		TasksSubmitted: promauto.With(registerer).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_submitted_total",
			Help: "Total number of tasks accepted by the pool",
		}),
		TasksCompleted: promauto.With(registerer).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_completed_total",
			Help: "Total number of tasks that finished successfully",
		}),
		TasksFailed: promauto.With(registerer).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_failed_total",
			Help: "Total number of tasks that finished with an error or panic",
		}),
		TasksRejected: promauto.With(registerer).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_rejected_total",
			Help: "Total number of submissions refused by the pool",
		}),
		TasksAbandoned: promauto.With(registerer).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_abandoned_total",
			Help: "Total number of queued tasks discarded by a non-draining shutdown",
		}),
		QueueDepth: promauto.With(registerer).NewGauge(prometheus.GaugeOpts{
			Name: "taskpool_queue_depth",
			Help: "Number of tasks waiting in the queue",
		}),
		Workers: promauto.With(registerer).NewGauge(prometheus.GaugeOpts{
			Name: "taskpool_workers",
			Help: "Fixed number of workers in the pool",
		}),
		TaskDuration: promauto.With(registerer).NewHistogram(prometheus.HistogramOpts{
			Name:    "taskpool_task_duration_seconds",
			Help:    "Task execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordTask records a finished task with its outcome and duration
func (m *Metrics) RecordTask(d time.Duration, failed bool) {
	if failed {
		m.TasksFailed.Inc()
	} else {
		m.TasksCompleted.Inc()
	}
	m.TaskDuration.Observe(d.Seconds())
}
