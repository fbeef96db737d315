package gateway

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks gateway-level counters using atomic operations for the
// /status view and mirrors them into a per-server Prometheus registry for
// /metrics scraping.
type Metrics struct {
	queries      atomic.Int64
	errors       atomic.Int64
	totalLatency atomic.Int64 // nanoseconds

	registry      *prometheus.Registry
	promQueries   prometheus.Counter
	promErrors    prometheus.Counter
	promLatencies prometheus.Histogram
}

// NewMetrics creates metrics with their own registry, so tests can run
// several servers without collector name collisions.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		promQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_queries_total",
			Help: "Total queries processed.",
		}),
		promErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_query_errors_total",
			Help: "Total queries that ended in an error response.",
		}),
		promLatencies: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aura_query_duration_seconds",
			Help:    "Query processing latency.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	m.registry.MustRegister(m.promQueries, m.promErrors, m.promLatencies)
	return m
}

// Registry returns the Prometheus registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordQuery records a processed query and its latency.
func (m *Metrics) RecordQuery(latency time.Duration) {
	m.queries.Add(1)
	m.totalLatency.Add(int64(latency))
	m.promQueries.Inc()
	m.promLatencies.Observe(latency.Seconds())
}

// RecordError records a query that produced an error response.
func (m *Metrics) RecordError() {
	m.errors.Add(1)
	m.promErrors.Inc()
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	queries := m.queries.Load()
	snap := MetricsSnapshot{
		Queries: queries,
		Errors:  m.errors.Load(),
	}
	if queries > 0 {
		snap.AvgLatency = time.Duration(m.totalLatency.Load() / queries)
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Queries    int64         `json:"queries"`
	Errors     int64         `json:"errors"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
}
