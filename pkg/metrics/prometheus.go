// Package metrics provides Prometheus metrics for the recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared with callers.
const (
	ModeContent = "content"
	ModeHybrid  = "hybrid"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Recommendation metrics
	recommendations       *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	candidatesScored      prometheus.Counter
	collaborativeHits     prometheus.Counter
	collaborativeMisses   prometheus.Counter
	recommendationErrors  *prometheus.CounterVec

	// Snapshot metrics
	snapshotReloads       *prometheus.CounterVec
	snapshotVersion       prometheus.Gauge
	snapshotBuildDuration prometheus.Histogram
	snapshotLastUnix      prometheus.Gauge
	snapshotFreelancers   prometheus.Gauge
	snapshotJobs          prometheus.Gauge
	snapshotClients       prometheus.Gauge
	vocabularySize        prometheus.Gauge

	// Reload trigger metrics
	reloadRequests  *prometheus.CounterVec
	reloadCoalesced prometheus.Counter

	// Evaluation metrics
	evaluationScore *prometheus.GaugeVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "peerhire",
		subsystem:        "recommender",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendations = m.counterVec("recommendations_total",
		"Total number of recommendation passes by mode", "mode")
	m.recommendationLatency = m.histogram("recommendation_latency_milliseconds",
		"Histogram of recommendation pass latency in milliseconds", m.histogramBuckets)
	m.candidatesScored = m.counter("candidates_scored_total",
		"Total number of (job, freelancer) pairs scored")
	m.collaborativeHits = m.counter("collaborative_predictions_total",
		"Total number of candidates that received a collaborative score")
	m.collaborativeMisses = m.counter("collaborative_fallbacks_total",
		"Total number of candidates that fell back to the content score alone")
	m.recommendationErrors = m.counterVec("recommendation_errors_total",
		"Total number of rejected or failed recommendation passes", "reason")

	m.snapshotReloads = m.counterVec("snapshot_reloads_total",
		"Total number of corpus reload attempts by result", "result")
	m.snapshotVersion = m.gauge("snapshot_version",
		"Version of the active corpus snapshot")
	m.snapshotBuildDuration = m.histogram("snapshot_build_duration_milliseconds",
		"Corpus load and snapshot build duration in milliseconds", m.histogramBuckets)
	m.snapshotLastUnix = m.gauge("snapshot_last_unix",
		"Unix timestamp of the last snapshot publish")
	m.snapshotFreelancers = m.gauge("snapshot_freelancers",
		"Number of freelancers in the active snapshot")
	m.snapshotJobs = m.gauge("snapshot_jobs",
		"Number of jobs in the active snapshot")
	m.snapshotClients = m.gauge("snapshot_clients",
		"Number of clients with ratings in the active snapshot")
	m.vocabularySize = m.gauge("vocabulary_size",
		"Number of distinct skill tags in the active snapshot")

	m.reloadRequests = m.counterVec("reload_requests_total",
		"Total number of reload requests by source", "source")
	m.reloadCoalesced = m.counter("reload_coalesced_total",
		"Total number of reload requests merged into an already pending reload")

	m.evaluationScore = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_score",
		Help:        "Average of the last batch evaluation by metric",
		ConstLabels: m.constLabels,
	}, []string{"metric"})

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordRecommendation counts one pass and the candidates it scored.
func RecordRecommendation(mode string, latencyMs float64, candidates, collaborative int) {
	globalManager.recommendations.WithLabelValues(mode).Inc()
	globalManager.recommendationLatency.Observe(latencyMs)
	globalManager.candidatesScored.Add(float64(candidates))
	if mode == ModeHybrid {
		globalManager.collaborativeHits.Add(float64(collaborative))
		globalManager.collaborativeMisses.Add(float64(candidates - collaborative))
	}
}

// RecordRecommendationError counts a rejected or failed pass.
func RecordRecommendationError(reason string) {
	globalManager.recommendationErrors.WithLabelValues(reason).Inc()
}

// RecordSnapshotReload counts a reload attempt and its build time.
func RecordSnapshotReload(result string, durationMs float64) {
	globalManager.snapshotReloads.WithLabelValues(result).Inc()
	globalManager.snapshotBuildDuration.Observe(durationMs)
}

// SnapshotSize describes a published snapshot.
type SnapshotSize struct {
	Version     uint64
	Freelancers int
	Jobs        int
	Clients     int
	Vocabulary  int
	PublishedAt float64
}

// UpdateSnapshot sets the gauges describing the active snapshot.
func UpdateSnapshot(s SnapshotSize) {
	globalManager.snapshotVersion.Set(float64(s.Version))
	globalManager.snapshotFreelancers.Set(float64(s.Freelancers))
	globalManager.snapshotJobs.Set(float64(s.Jobs))
	globalManager.snapshotClients.Set(float64(s.Clients))
	globalManager.vocabularySize.Set(float64(s.Vocabulary))
	globalManager.snapshotLastUnix.Set(s.PublishedAt)
}

// RecordReloadRequest counts a reload request from a source.
func RecordReloadRequest(source string) {
	globalManager.reloadRequests.WithLabelValues(source).Inc()
}

// RecordReloadCoalesced counts a request merged into a pending reload.
func RecordReloadCoalesced() {
	globalManager.reloadCoalesced.Inc()
}

// UpdateEvaluation sets the last batch averages.
func UpdateEvaluation(skillCoverage, budgetMatch, diversity, overall float64) {
	globalManager.evaluationScore.WithLabelValues("skill_coverage").Set(skillCoverage)
	globalManager.evaluationScore.WithLabelValues("budget_match").Set(budgetMatch)
	globalManager.evaluationScore.WithLabelValues("diversity").Set(diversity)
	globalManager.evaluationScore.WithLabelValues("overall").Set(overall)
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

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
