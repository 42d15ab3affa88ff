// Package metrics provides Prometheus metrics for the chart service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the Prometheus metrics the service records.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	chartsRendered *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	refresherRuns   prometheus.Counter
	refresherErrors prometheus.Counter

	upstreamErrors prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry()

// Initialize global metrics.
func init() {
	globalManager = NewManager(customRegistry)
}

// NewManager creates a manager with every metric registered on the given
// registry.
func NewManager(registry prometheus.Registerer) *Manager {
	m := &Manager{
		namespace: "geoplot",
		registry:  registry,
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "server",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "server",
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.chartsRendered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "charts",
			Name:      "rendered_total",
			Help:      "Total number of chart builds by chart kind",
		},
		[]string{"kind"},
	)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total number of reduction cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total number of reduction cache misses",
	})

	m.refresherRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresher",
		Name:      "runs_total",
		Help:      "Total number of operations refresher runs",
	})

	m.refresherErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresher",
		Name:      "errors_total",
		Help:      "Total number of operations refresher failures",
	})

	m.upstreamErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "server",
		Name:      "upstream_errors_total",
		Help:      "Total number of reduction API failures",
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordChartRendered increments the chart build counter for a chart kind.
func RecordChartRendered(kind string) {
	globalManager.chartsRendered.WithLabelValues(kind).Inc()
}

// RecordCacheHit increments the reduction cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the reduction cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordRefresherRun increments the refresher run counter.
func RecordRefresherRun() {
	globalManager.refresherRuns.Inc()
}

// RecordRefresherError increments the refresher failure counter.
func RecordRefresherError() {
	globalManager.refresherErrors.Inc()
}

// RecordUpstreamError increments the reduction API failure counter.
func RecordUpstreamError() {
	globalManager.upstreamErrors.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
