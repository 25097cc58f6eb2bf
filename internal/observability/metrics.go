// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "events"

// Metrics groups the collectors of one service instance on a private
// registry.
type Metrics struct {
	registry   *prometheus.Registry
	parsed     *prometheus.CounterVec
	reconciled prometheus.Counter
	filtered   prometheus.Counter
	duration   prometheus.Histogram
	requests   *prometheus.CounterVec
}

// NewMetrics builds and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parsed_total",
			Help:      "Events parsed per source document.",
		}, []string{"source"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciled_total",
			Help:      "Events emitted by reconciliation.",
		}),
		filtered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filtered_total",
			Help:      "Parsed events folded into others or dropped for lack of activity.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconcile_duration_seconds",
			Help:    "Time spent parsing and merging one upload.",
			Buckets: prometheus.DefBuckets,
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"route", "method", "status"}),
	}
	m.registry.MustRegister(m.parsed, m.reconciled, m.filtered, m.duration, m.requests)
	return m
}

// ObserveParsed counts events read from one source.
func (m *Metrics) ObserveParsed(source string, n int) {
	m.parsed.WithLabelValues(source).Add(float64(n))
}

// ObserveReconcile records one merge run: how many events went in, how
// many came out and how long it took.
func (m *Metrics) ObserveReconcile(in, out int, elapsed time.Duration) {
	m.reconciled.Add(float64(out))
	if in > out {
		m.filtered.Add(float64(in - out))
	}
	m.duration.Observe(elapsed.Seconds())
}

// Parsed returns the counter of one source, for tests.
func (m *Metrics) Parsed(source string) prometheus.Counter {
	return m.parsed.WithLabelValues(source)
}

// Reconciled returns the output counter.
func (m *Metrics) Reconciled() prometheus.Counter { return m.reconciled }

// Filtered returns the folded/dropped counter.
func (m *Metrics) Filtered() prometheus.Counter { return m.filtered }

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by matched route, method and status.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
