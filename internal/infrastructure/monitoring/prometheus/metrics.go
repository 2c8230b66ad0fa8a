// Package prometheus exposes the service's operational metrics. A single
// Metrics value owns a private registry so tests can construct collectors
// without colliding with the global default registry.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	analyticsRuns *prometheus.CounterVec
	modelDuration *prometheus.HistogramVec
	upstreamFails *prometheus.CounterVec
	rowsProcessed *prometheus.HistogramVec
}

// NewMetrics builds and registers all collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, partitioned by method, path and status code.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
		analyticsRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_runs_total",
			Help:      "Analytics operations executed, partitioned by operation and result status.",
		}, []string{"operation", "status"}),
		modelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_fit_duration_seconds",
			Help:      "Wall-clock time of the compute phase per analytics operation.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		upstreamFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_failures_total",
			Help:      "Upstream fetches that degraded to an empty dataset.",
		}, []string{"upstream"}),
		rowsProcessed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_batch_rows",
			Help:      "Row count of the batch handed to each analytics operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"operation"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.analyticsRuns,
		m.modelDuration, m.upstreamFails, m.rowsProcessed)
	return m
}

// Handler returns the scrape endpoint for this Metrics' registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveAnalyticsRun records one analytics operation and its compute time.
func (m *Metrics) ObserveAnalyticsRun(operation, status string, rows int, d time.Duration) {
	m.analyticsRuns.WithLabelValues(operation, status).Inc()
	m.modelDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.rowsProcessed.WithLabelValues(operation).Observe(float64(rows))
}

// ObserveUpstreamFailure records a fetch that degraded to an empty dataset.
func (m *Metrics) ObserveUpstreamFailure(upstream string) {
	m.upstreamFails.WithLabelValues(upstream).Inc()
}
