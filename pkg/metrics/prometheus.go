package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every Prometheus collector of the lineup service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Optimizer
	optimizations          *prometheus.CounterVec
	optimizationLatency    *prometheus.HistogramVec
	combinationsEvaluated  prometheus.Counter
	optimizationErrors     *prometheus.CounterVec
	scenariosProcessed     *prometheus.CounterVec
	historySize            prometheus.Gauge
	historyQueryLatency    *prometheus.HistogramVec
	historyEvictions       prometheus.Counter
	predictionsRun         prometheus.Counter
	sensitivitySweepPoints prometheus.Counter

	// Jobs, queue and workers
	jobsSubmitted           prometheus.Counter
	jobsDuplicate           prometheus.Counter
	jobsFinished            *prometheus.CounterVec
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lineup",
		subsystem:        "optimizer",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.optimizations = auto.NewCounterVec(
		m.counterOpts("optimizations_total", "Lineups selected by search strategy and objective"),
		[]string{"strategy", "objective"},
	)
	m.optimizationLatency = auto.NewHistogramVec(
		m.histogramOpts("optimization_latency_milliseconds", "Lineup search latency in milliseconds"),
		[]string{"strategy"},
	)
	m.combinationsEvaluated = auto.NewCounter(
		m.counterOpts("combinations_evaluated_total", "Candidate lineups scored by exact search"),
	)
	m.optimizationErrors = auto.NewCounterVec(
		m.counterOpts("optimization_errors_total", "Rejected optimization requests by reason"),
		[]string{"reason"},
	)
	m.scenariosProcessed = auto.NewCounterVec(
		m.counterOpts("scenarios_total", "Scenarios evaluated by outcome"),
		[]string{"outcome"},
	)
	m.historySize = auto.NewGauge(
		m.gaugeOpts("history_size", "Scenario results currently retained"),
	)
	m.historyQueryLatency = auto.NewHistogramVec(
		m.histogramOpts("history_query_latency_milliseconds", "History store operation latency in milliseconds"),
		[]string{"operation"},
	)
	m.historyEvictions = auto.NewCounter(
		m.counterOpts("history_evictions_total", "Scenario results dropped to honour the history limit"),
	)
	m.predictionsRun = auto.NewCounter(
		m.counterOpts("predictions_total", "Match predictions computed"),
	)
	m.sensitivitySweepPoints = auto.NewCounter(
		m.counterOpts("sensitivity_points_total", "Weight sweep points evaluated"),
	)

	m.jobsSubmitted = auto.NewCounter(
		m.counterOpts("jobs_submitted_total", "Batch jobs accepted for processing"),
	)
	m.jobsDuplicate = auto.NewCounter(
		m.counterOpts("jobs_duplicate_total", "Batch job submissions rejected as duplicates"),
	)
	m.jobsFinished = auto.NewCounterVec(
		m.counterOpts("jobs_finished_total", "Batch jobs finished by status"),
		[]string{"status"},
	)
	m.queueSize = auto.NewGauge(
		m.gaugeOpts("queue_size", "Current size of the job queue"),
	)
	m.queueCapacity = auto.NewGauge(
		m.gaugeOpts("queue_capacity", "Maximum job queue capacity"),
	)
	m.queueEnqueueErrors = auto.NewCounter(
		m.counterOpts("queue_enqueue_errors_total", "Jobs rejected because the queue was full or closed"),
	)
	m.workerCount = auto.NewGauge(
		m.gaugeOpts("worker_count", "Number of running workers"),
	)
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Batch job processing latency in milliseconds"),
	)
	m.workerErrors = auto.NewCounter(
		m.counterOpts("worker_errors_total", "Batch jobs that failed in a worker"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error code"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
}

// RecordOptimization counts a selected lineup.
func RecordOptimization(strategy, objective string) {
	globalManager.optimizations.WithLabelValues(strategy, objective).Inc()
}

// RecordOptimizationLatency records search latency in milliseconds.
func RecordOptimizationLatency(strategy string, latencyMs float64) {
	globalManager.optimizationLatency.WithLabelValues(strategy).Observe(latencyMs)
}

// RecordCombinationsEvaluated adds to the exact-search candidate counter.
func RecordCombinationsEvaluated(n int64) {
	if n > 0 {
		globalManager.combinationsEvaluated.Add(float64(n))
	}
}

// RecordOptimizationError counts a rejected optimization request.
func RecordOptimizationError(reason string) {
	globalManager.optimizationErrors.WithLabelValues(reason).Inc()
}

// RecordScenario counts an evaluated scenario. Outcome is "selected",
// "insufficient" or "failed".
func RecordScenario(outcome string) {
	globalManager.scenariosProcessed.WithLabelValues(outcome).Inc()
}

// UpdateHistorySize sets the number of retained scenario results.
func UpdateHistorySize(size int) {
	globalManager.historySize.Set(float64(size))
}

// RecordHistoryLatency observes the latency of a history store operation.
func RecordHistoryLatency(operation string, latencyMs float64) {
	globalManager.historyQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHistoryEvictions counts results evicted from the history.
func RecordHistoryEvictions(n int) {
	if n > 0 {
		globalManager.historyEvictions.Add(float64(n))
	}
}

// RecordPrediction counts a computed match prediction.
func RecordPrediction() {
	globalManager.predictionsRun.Inc()
}

// RecordSensitivityPoints adds evaluated sweep points.
func RecordSensitivityPoints(n int) {
	if n > 0 {
		globalManager.sensitivitySweepPoints.Add(float64(n))
	}
}

// RecordJobSubmitted counts an accepted batch job.
func RecordJobSubmitted() {
	globalManager.jobsSubmitted.Inc()
}

// RecordJobDuplicate counts a duplicate batch job submission.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordJobFinished counts a batch job reaching a terminal status.
func RecordJobFinished(status string) {
	globalManager.jobsFinished.WithLabelValues(status).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records job processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
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
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// CollectSystem samples runtime statistics once.
func CollectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.HeapInuse)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// RunSystemCollector samples runtime statistics on the refresh interval
// until ctx is cancelled.
func RunSystemCollector(ctx context.Context) {
	ticker := time.NewTicker(globalManager.refreshInterval)
	defer ticker.Stop()
	CollectSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CollectSystem()
		}
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
