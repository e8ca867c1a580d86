// Package metrics provides Prometheus metrics for the pitchside service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pitchside service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// Provider
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec

	// Cache
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	cacheEntries *prometheus.GaugeVec

	// Pipeline
	filterApplications  *prometheus.CounterVec
	filterResultRows    prometheus.Histogram
	configurationErrors *prometheus.CounterVec
	exports             *prometheus.CounterVec

	// Sessions
	activeSessions prometheus.Gauge

	// Prefetch
	prefetchJobs      *prometheus.CounterVec
	prefetchQueueSize prometheus.Gauge
	prefetchWorkers   prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

// httpLatencyBuckets are in milliseconds, matching RecordHTTPRequestDuration.
var httpLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // bucket layout

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(
		WithHistogramBuckets(httpLatencyBuckets),
		WithPrometheusRegistry(customRegistry),
	)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchside",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and error type",
	}, []string{"component", "error_type"})

	m.providerRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_requests_total",
		Help:      "Requests sent to the event-data provider by lookup and outcome",
	}, []string{"lookup", "outcome"})

	m.providerLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_latency_milliseconds",
		Help:      "Event-data provider latency in milliseconds",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"lookup"})

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Lookup cache hits by cache name",
	}, []string{"cache"})

	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Lookup cache misses by cache name",
	}, []string{"cache"})

	m.cacheEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Current number of cached entries by cache name",
	}, []string{"cache"})

	m.filterApplications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_applications_total",
		Help:      "Filter submissions applied, by event-type selector",
	}, []string{"selector"})

	m.filterResultRows = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_result_rows",
		Help:      "Rows surviving a filter submission",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})

	m.configurationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "configuration_errors_total",
		Help:      "Rejected filter submissions by offending field",
	}, []string{"field"})

	m.exports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_total",
		Help:      "Event collections exported, by format",
	}, []string{"format"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Sessions currently held by the session store",
	})

	m.prefetchJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prefetch_jobs_total",
		Help:      "Prefetch jobs by outcome",
	}, []string{"outcome"})

	m.prefetchQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prefetch_queue_size",
		Help:      "Current size of the prefetch queue",
	})

	m.prefetchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prefetch_workers",
		Help:      "Number of running prefetch workers",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Garbage collection pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Enabled reports whether the global manager records observations.
func Enabled() bool {
	return globalManager.enabled
}

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Provider metrics.

// RecordProviderRequest counts one provider request; outcome is "ok", "not_found" or "error".
func RecordProviderRequest(lookup, outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.providerRequests.WithLabelValues(lookup, outcome).Inc()
}

// RecordProviderLatency records provider latency in milliseconds.
func RecordProviderLatency(lookup string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.providerLatency.WithLabelValues(lookup).Observe(latencyMs)
}

// Cache metrics.

// RecordCacheHit counts a cache hit.
func RecordCacheHit(cache string) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss(cache string) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// UpdateCacheEntries sets the current number of entries in a cache.
func UpdateCacheEntries(cache string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(count))
}

// Pipeline metrics.

// RecordFilterApplied counts a filter submission and the rows it produced.
func RecordFilterApplied(selector string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.filterApplications.WithLabelValues(selector).Inc()
	globalManager.filterResultRows.Observe(float64(rows))
}

// RecordConfigurationError counts a rejected filter submission.
func RecordConfigurationError(field string) {
	if !globalManager.enabled {
		return
	}
	globalManager.configurationErrors.WithLabelValues(field).Inc()
}

// RecordExport counts an export by format.
func RecordExport(format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.exports.WithLabelValues(format).Inc()
}

// Session metrics.

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.activeSessions.Set(float64(count))
}

// Prefetch metrics.

// RecordPrefetchJob counts a prefetch job by outcome ("enqueued", "duplicate", "dropped", "done", "error").
func RecordPrefetchJob(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.prefetchJobs.WithLabelValues(outcome).Inc()
}

// UpdatePrefetchQueueSize sets the current prefetch backlog.
func UpdatePrefetchQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.prefetchQueueSize.Set(float64(size))
}

// UpdatePrefetchWorkers sets the number of running prefetch workers.
func UpdatePrefetchWorkers(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.prefetchWorkers.Set(float64(count))
}

// System metrics.

// UpdateSystemMemoryUsage sets the memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
