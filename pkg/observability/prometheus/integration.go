package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// PoolMetrics adapts Metrics to the taskpool.Metrics hook interface.
// Wire it in via taskpool.Config{Metrics: prometheus.NewPoolMetrics(nil)}.
type PoolMetrics struct {
	m *Metrics
}

// NewPoolMetrics creates a taskpool instrumentation hook backed by m.
// A nil m uses the global metrics instance.
func NewPoolMetrics(m *Metrics) *PoolMetrics {
	if m == nil {
		m = GetMetrics()
	}
	return &PoolMetrics{m: m}
}

func (p *PoolMetrics) TaskSubmitted() {
	p.m.TasksSubmitted.Inc()
}

func (p *PoolMetrics) TaskRejected() {
	p.m.TasksRejected.Inc()
}

func (p *PoolMetrics) TaskCompleted(d time.Duration) {
	p.m.RecordTask(d, false)
}

func (p *PoolMetrics) TaskFailed(d time.Duration) {
	p.m.RecordTask(d, true)
}

func (p *PoolMetrics) TaskAbandoned() {
	p.m.TasksAbandoned.Inc()
}

func (p *PoolMetrics) QueueDepth(n int) {
	p.m.QueueDepth.Set(float64(n))
}

func (p *PoolMetrics) WorkersStarted(n int) {
	p.m.Workers.Set(float64(n))
}

// Handler returns an http.Handler serving the default registry in the
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// FastHTTPHandler returns the metrics handler adapted for fasthttp servers.
func FastHTTPHandler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(Handler())
}
