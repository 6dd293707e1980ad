package sideline

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend call counts and latencies per operation.
type Metrics struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sideline_backend_requests_total",
			Help: "Backend requests by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sideline_backend_failures_total",
			Help: "Failed backend requests by operation and failure kind.",
		}, []string{"op", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sideline_backend_request_seconds",
			Help:    "Backend request latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.requests, m.failures, m.duration)
	return m
}

func (m *Metrics) observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err == nil {
		return
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		m.failures.WithLabelValues(op, fe.label()).Inc()
		return
	}
	m.failures.WithLabelValues(op, "other").Inc()
}
