// Package metrics provides Prometheus metrics for the attendance engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recognition pipeline
	framesProcessed    prometheus.Counter
	facesDetected      prometheus.Counter
	matchesActionable  prometheus.Counter
	facesUnknown       prometheus.Counter
	matchConfidence    prometheus.Histogram
	livenessChecks     *prometheus.CounterVec
	livenessGateBusy   prometheus.Counter
	debounceSuppressed prometheus.Counter

	// Check-in outcomes
	checkInsRecorded  prometheus.Counter
	checkInsDuplicate prometheus.Counter
	checkInsSkipped   prometheus.Counter
	checkInsFailed    prometheus.Counter
	recordLatency     prometheus.Histogram

	// Session lifecycle
	sessionsOpened   prometheus.Counter
	sessionsClosed   prometheus.Counter
	sessionsDeleted  prometheus.Counter
	openRejected     *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	trackedStudents  prometheus.Gauge

	// Queue and workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueRejections  prometheus.Counter
	workerCount      prometheus.Gauge
	workerLatency    prometheus.Histogram
	workerErrors     prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Host process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "muster",
		subsystem:        "attendance",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics registers all metrics on the configured registry.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat metric declarations
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of detection ticks processed by the capture loop",
	})
	m.facesDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "faces_detected_total",
		Help:      "Total number of face descriptors received from the detector",
	})
	m.matchesActionable = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_actionable_total",
		Help:      "Total number of matches above the action threshold",
	})
	m.facesUnknown = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "faces_unknown_total",
		Help:      "Total number of detections below the action threshold",
	})
	m.matchConfidence = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_confidence",
		Help:      "Histogram of matcher confidence values",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
	m.livenessChecks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "liveness_checks_total",
			Help:      "Total number of completed liveness checks by outcome",
		},
		[]string{"outcome"},
	)
	m.livenessGateBusy = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "liveness_gate_busy_total",
		Help:      "Total number of candidates dropped because a liveness check was in flight",
	})
	m.debounceSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "debounce_suppressed_total",
		Help:      "Total number of recording attempts suppressed by the debouncer",
	})

	m.checkInsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checkins_recorded_total",
		Help:      "Total number of attendance records created",
	})
	m.checkInsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checkins_duplicate_total",
		Help:      "Total number of check-ins rejected as already recorded",
	})
	m.checkInsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checkins_skipped_total",
		Help:      "Total number of check-ins skipped because the student was not enrolled",
	})
	m.checkInsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checkins_failed_total",
		Help:      "Total number of check-in submissions that failed transiently",
	})
	m.recordLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_latency_milliseconds",
		Help:      "Histogram of end-to-end recording latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sessionsOpened = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_opened_total",
		Help:      "Total number of attendance sessions opened",
	})
	m.sessionsClosed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_closed_total",
		Help:      "Total number of attendance sessions closed",
	})
	m.sessionsDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_deleted_total",
		Help:      "Total number of closed sessions deleted",
	})
	m.openRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "session_open_rejected_total",
			Help:      "Total number of rejected session opens by reason",
		},
		[]string{"reason"},
	)
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of sessions accepting check-ins",
	})
	m.trackedStudents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_students",
		Help:      "Number of students in the loaded recognition roster",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the check-in job queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the check-in job queue",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Queue fill ratio between 0 and 1",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueues_total",
		Help:      "Total number of jobs accepted by the queue",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeues_total",
		Help:      "Total number of jobs handed to workers",
	})
	m.queueRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_rejections_total",
		Help:      "Total number of jobs rejected by a full or closed queue",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of check-in workers",
	})
	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_latency_milliseconds",
		Help:      "Histogram of per-job worker processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker processing errors",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
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

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Recognition pipeline helpers.

func RecordFrameProcessed()  { globalManager.framesProcessed.Inc() }
func RecordFaceDetected()    { globalManager.facesDetected.Inc() }
func RecordMatchActionable() { globalManager.matchesActionable.Inc() }
func RecordUnknownFace()     { globalManager.facesUnknown.Inc() }

// RecordMatchConfidence observes a matcher confidence value.
func RecordMatchConfidence(confidence float64) {
	globalManager.matchConfidence.Observe(confidence)
}

// RecordLivenessCheck counts a completed liveness check by outcome
// ("verified" or "failed").
func RecordLivenessCheck(outcome string) {
	globalManager.livenessChecks.WithLabelValues(outcome).Inc()
}

// RecordLivenessGateBusy counts a candidate dropped by the occupied gate.
func RecordLivenessGateBusy() { globalManager.livenessGateBusy.Inc() }

// RecordDebounceSuppressed counts a suppressed recording attempt.
func RecordDebounceSuppressed() { globalManager.debounceSuppressed.Inc() }

// Check-in outcome helpers.

func RecordCheckInRecorded()  { globalManager.checkInsRecorded.Inc() }
func RecordCheckInDuplicate() { globalManager.checkInsDuplicate.Inc() }
func RecordCheckInSkipped()   { globalManager.checkInsSkipped.Inc() }
func RecordCheckInFailed()    { globalManager.checkInsFailed.Inc() }

// RecordRecordLatency observes end-to-end recording latency in milliseconds.
func RecordRecordLatency(latencyMs float64) {
	globalManager.recordLatency.Observe(latencyMs)
}

// Session lifecycle helpers.

func RecordSessionOpened()  { globalManager.sessionsOpened.Inc() }
func RecordSessionClosed()  { globalManager.sessionsClosed.Inc() }
func RecordSessionDeleted() { globalManager.sessionsDeleted.Inc() }

// RecordOpenRejected counts a rejected open by reason
// ("slot_active", "too_early", "expired" or "invalid").
func RecordOpenRejected(reason string) {
	globalManager.openRejected.WithLabelValues(reason).Inc()
}

// UpdateActiveSessions sets the active session gauge.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// UpdateTrackedStudents sets the roster size gauge.
func UpdateTrackedStudents(count int) {
	globalManager.trackedStudents.Set(float64(count))
}

// Queue and worker helpers.

func UpdateQueueSize(size int)         { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }
func UpdateQueueUtilization(ratio float64) {
	globalManager.queueUtilization.Set(ratio)
}
func RecordQueueEnqueue()   { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()   { globalManager.queueDequeues.Inc() }
func RecordQueueRejection() { globalManager.queueRejections.Inc() }

func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// HTTP helpers.

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Host process helpers.

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global manager registers on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
