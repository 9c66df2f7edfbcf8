package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Manager manages all Prometheus metrics for the ladder engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine metrics
	operations       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	sorts            *prometheus.CounterVec
	sortLatency      *prometheus.HistogramVec
	searchLatency    *prometheus.HistogramVec
	entities         prometheus.Gauge

	// Snapshot metrics
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotCount           prometheus.Counter

	// Ingest metrics
	commandsSubmitted   prometheus.Counter
	commandsDuplicate   prometheus.Counter
	commandsRateLimited prometheus.Counter

	// Queue metrics
	queueCapacity      prometheus.Gauge
	queueSize          prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerApplied           *prometheus.CounterVec
	workerFailed            *prometheus.CounterVec
	workerProcessingLatency prometheus.Histogram

	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCCount        prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram

	// Monitor metrics
	monitorTasks   prometheus.Gauge
	monitorSamples *prometheus.CounterVec

	comparisonLatency *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ladder",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	// Engine
	m.operations = auto.NewCounterVec(
		m.counterOpts("operations_total", "Total number of leaderboard operations by operation and result"),
		[]string{"op", "result"},
	)
	m.operationLatency = auto.NewHistogramVec(
		m.histogramOpts("operation_latency_milliseconds", "Leaderboard operation latency in milliseconds"),
		[]string{"op"},
	)
	m.sorts = auto.NewCounterVec(
		m.counterOpts("sorts_total", "Total number of full re-sorts by sorter"),
		[]string{"sorter"},
	)
	m.sortLatency = auto.NewHistogramVec(
		m.histogramOpts("sort_latency_milliseconds", "Re-sort latency in milliseconds by sorter"),
		[]string{"sorter"},
	)
	m.searchLatency = auto.NewHistogramVec(
		m.histogramOpts("search_latency_milliseconds", "Search latency in milliseconds by strategy and kind"),
		[]string{"strategy", "kind"},
	)
	m.entities = auto.NewGauge(m.gaugeOpts("entities", "Number of entities in the leaderboard"))

	// Snapshots
	m.snapshotRebuildDuration = auto.NewHistogram(
		m.histogramOpts("snapshot_rebuild_duration_milliseconds", "Snapshot rebuild duration in milliseconds"),
	)
	m.snapshotLastUnix = auto.NewGauge(
		m.gaugeOpts("snapshot_last_unix", "Unix timestamp of the last snapshot publish"),
	)
	m.snapshotCount = auto.NewCounter(
		m.counterOpts("snapshot_count_total", "Total number of snapshots published"),
	)

	// Ingest
	m.commandsSubmitted = auto.NewCounter(
		m.counterOpts("commands_submitted_total", "Total number of commands accepted for processing"),
	)
	m.commandsDuplicate = auto.NewCounter(
		m.counterOpts("commands_duplicate_total", "Total number of duplicate commands dropped"),
	)
	m.commandsRateLimited = auto.NewCounter(
		m.counterOpts("commands_rate_limited_total", "Total number of commands rejected by the rate limiter"),
	)

	// Queue
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued commands"))
	m.queueUtilization = auto.NewGauge(
		m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"),
	)
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of commands enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of commands dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(
		m.counterOpts("queue_enqueue_errors_total", "Total number of rejected enqueues"),
	)

	// Workers
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Number of running workers"))
	m.workerApplied = auto.NewCounterVec(
		m.counterOpts("worker_applied_total", "Total number of commands applied by operation"),
		[]string{"op"},
	)
	m.workerFailed = auto.NewCounterVec(
		m.counterOpts("worker_failed_total", "Total number of commands that failed by operation and reason"),
		[]string{"op", "reason"},
	)
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds"),
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	// System
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCCount = auto.NewGauge(m.gaugeOpts("system_gc_count", "Number of completed GC cycles"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})

	// Monitor
	m.monitorTasks = auto.NewGauge(m.gaugeOpts("monitor_tasks", "Number of running monitor tasks"))
	m.monitorSamples = auto.NewCounterVec(
		m.counterOpts("monitor_samples_total", "Total number of monitor samples taken by kind"),
		[]string{"kind"},
	)

	m.comparisonLatency = auto.NewHistogramVec(
		m.histogramOpts("comparison_latency_milliseconds", "Performance comparison phase latency in milliseconds"),
		[]string{"sorter", "strategy", "phase"},
	)
}

// Engine Metrics Functions.

// RecordOperation counts a leaderboard operation and observes its latency.
func RecordOperation(op, result string, latencyMs float64) {
	globalManager.operations.WithLabelValues(op, result).Inc()
	globalManager.operationLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordSort counts a full re-sort and observes its latency.
func RecordSort(sorter string, latencyMs float64) {
	globalManager.sorts.WithLabelValues(sorter).Inc()
	globalManager.sortLatency.WithLabelValues(sorter).Observe(latencyMs)
}

// RecordSearchLatency records search latency for a strategy and kind (name or range).
func RecordSearchLatency(strategy, kind string, latencyMs float64) {
	globalManager.searchLatency.WithLabelValues(strategy, kind).Observe(latencyMs)
}

// UpdateEntityCount sets the number of entities in the leaderboard.
func UpdateEntityCount(count int) {
	globalManager.entities.Set(float64(count))
}

// Snapshot Metrics Functions.

// RecordSnapshotRebuild records a published snapshot.
func RecordSnapshotRebuild(durationMs float64, unix int64) {
	globalManager.snapshotRebuildDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(unix))
	globalManager.snapshotCount.Inc()
}

// Ingest Metrics Functions.

// RecordCommandSubmitted increments the accepted commands counter.
func RecordCommandSubmitted() {
	globalManager.commandsSubmitted.Inc()
}

// RecordCommandDuplicate increments the duplicate commands counter.
func RecordCommandDuplicate() {
	globalManager.commandsDuplicate.Inc()
}

// RecordCommandRateLimited increments the rate limited commands counter.
func RecordCommandRateLimited() {
	globalManager.commandsRateLimited.Inc()
}

// Queue Metrics Functions.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerApplied records a successfully applied command.
func RecordWorkerApplied(op string, latencyMs float64) {
	globalManager.workerApplied.WithLabelValues(op).Inc()
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerFailed records a command that could not be applied.
func RecordWorkerFailed(op, reason string) {
	globalManager.workerFailed.WithLabelValues(op, reason).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// UpdateSystemGCCount sets the number of completed GC cycles.
func UpdateSystemGCCount(count uint32) {
	globalManager.systemGCCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// Monitor Metrics Functions.

// UpdateMonitorTasks sets the number of running monitor tasks.
func UpdateMonitorTasks(count int) {
	globalManager.monitorTasks.Set(float64(count))
}

// RecordMonitorSample increments the sample counter for a monitor kind.
func RecordMonitorSample(kind string) {
	globalManager.monitorSamples.WithLabelValues(kind).Inc()
}

// RecordComparisonPhase records the latency of one phase of a performance comparison.
func RecordComparisonPhase(sorter, strategy, phase string, latencyMs float64) {
	globalManager.comparisonLatency.WithLabelValues(sorter, strategy, phase).Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteText writes every registered metric family in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := customRegistry.Gather()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGather, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
