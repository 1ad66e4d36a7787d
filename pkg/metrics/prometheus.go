// Package metrics provides Prometheus metrics for the orestat comparison service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the orestat service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics - dataset intake and comparison activity
	datasetsUploaded  *prometheus.CounterVec
	uploadErrors      prometheus.Counter
	rowsParsed        prometheus.Counter
	statsComputations prometheus.Counter
	reportExports     prometheus.Counter
	sampleRequests    prometheus.Counter
	mappingFallbacks  prometheus.Counter

	// Operational Health Metrics
	activeSessions  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// Computation Performance Metrics
	parseLatency   prometheus.Histogram
	computeLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "orestat",
		subsystem:        "compare",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.datasetsUploaded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "datasets_uploaded_total",
			Help:      "Total number of datasets successfully uploaded, by kind",
		},
		[]string{"kind"},
	)

	m.uploadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_errors_total",
		Help:      "Total number of rejected dataset uploads (parse or size failures)",
	})

	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_parsed_total",
		Help:      "Total number of tabular rows decoded from uploads",
	})

	m.statsComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stats_computations_total",
		Help:      "Total number of statistics summaries computed",
	})

	m.reportExports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_exports_total",
		Help:      "Total number of comparison reports exported",
	})

	m.sampleRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sample_requests_total",
		Help:      "Total number of 3D point sample requests served",
	})

	m.mappingFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mapping_fallbacks_total",
		Help:      "Total number of column roles that fell back to the first column",
	})

	// Operational Health Metrics
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of live comparison sessions",
	})

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Total number of comparison sessions created",
	})

	m.sessionsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_evicted_total",
		Help:      "Total number of sessions evicted by the session cap",
	})

	// Computation Performance Metrics
	m.parseLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_latency_milliseconds",
		Help:      "Histogram of CSV decode latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.computeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_latency_milliseconds",
		Help:      "Histogram of statistics computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordDatasetUploaded increments the dataset upload counter for a kind.
func RecordDatasetUploaded(kind string) {
	globalManager.datasetsUploaded.WithLabelValues(kind).Inc()
}

// RecordUploadError increments the rejected upload counter.
func RecordUploadError() {
	globalManager.uploadErrors.Inc()
}

// RecordRowsParsed adds to the decoded row counter.
func RecordRowsParsed(n int) {
	globalManager.rowsParsed.Add(float64(n))
}

// RecordStatsComputation increments the summary computation counter.
func RecordStatsComputation() {
	globalManager.statsComputations.Inc()
}

// RecordReportExport increments the report export counter.
func RecordReportExport() {
	globalManager.reportExports.Inc()
}

// RecordSampleRequest increments the point sample request counter.
func RecordSampleRequest() {
	globalManager.sampleRequests.Inc()
}

// RecordMappingFallback increments the column fallback counter.
func RecordMappingFallback() {
	globalManager.mappingFallbacks.Inc()
}

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordSessionCreated increments the session creation counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted increments the session eviction counter.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// RecordParseLatency records CSV decode latency in milliseconds.
func RecordParseLatency(latencyMs float64) {
	globalManager.parseLatency.Observe(latencyMs)
}

// RecordComputeLatency records statistics computation latency in milliseconds.
func RecordComputeLatency(latencyMs float64) {
	globalManager.computeLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
