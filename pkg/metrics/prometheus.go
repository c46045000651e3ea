// Package metrics provides Prometheus metrics for the ddrank ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a ranking run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics - one file is one tournament
	filesDiscovered prometheus.Counter
	filesParsed     prometheus.Counter
	filesRejected   prometheus.Counter
	filesUnreadable prometheus.Counter
	malformedLines  prometheus.Counter
	unknownDirs     prometheus.Counter
	parseLatency    prometheus.Histogram

	// Queue and worker health
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	workerCount   prometheus.Gauge

	// Ranking output
	playersRanked prometheus.Gauge
	awardsTotal   prometheus.Counter
	runDuration   prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ddrank",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.filesDiscovered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_discovered_total",
		Help:      "Total number of result files discovered under the root",
	})

	m.filesParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_parsed_total",
		Help:      "Total number of files parsed into valid tournaments",
	})

	m.filesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_rejected_total",
		Help:      "Total number of files rejected for inconsistent tie groups",
	})

	m.filesUnreadable = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_unreadable_total",
		Help:      "Total number of files skipped due to read errors",
	})

	m.malformedLines = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_lines_total",
		Help:      "Total number of malformed result lines skipped",
	})

	m.unknownDirs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_level_dirs_total",
		Help:      "Total number of directories not matching a tournament level",
	})

	m.parseLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_latency_milliseconds",
		Help:      "Histogram of per-file parse and validation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the file job queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum capacity of the file job queue",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of parse workers",
	})

	m.playersRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_ranked",
		Help:      "Number of players in the published ranking snapshot",
	})

	m.awardsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "point_awards_total",
		Help:      "Total number of point awards produced",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "End-to-end pipeline run duration in milliseconds",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
}

// RecordFileDiscovered increments the discovered files counter.
func RecordFileDiscovered() {
	globalManager.filesDiscovered.Inc()
}

// RecordFileParsed increments the parsed files counter.
func RecordFileParsed() {
	globalManager.filesParsed.Inc()
}

// RecordFileRejected increments the rejected files counter.
func RecordFileRejected() {
	globalManager.filesRejected.Inc()
}

// RecordFileUnreadable increments the unreadable files counter.
func RecordFileUnreadable() {
	globalManager.filesUnreadable.Inc()
}

// RecordMalformedLines adds to the malformed lines counter.
func RecordMalformedLines(n int) {
	globalManager.malformedLines.Add(float64(n))
}

// RecordUnknownLevelDir increments the unknown level directory counter.
func RecordUnknownLevelDir() {
	globalManager.unknownDirs.Inc()
}

// RecordParseLatency records per-file parse latency in milliseconds.
func RecordParseLatency(latencyMs float64) {
	globalManager.parseLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdatePlayersRanked sets the number of ranked players.
func UpdatePlayersRanked(count int) {
	globalManager.playersRanked.Set(float64(count))
}

// RecordPointAwards adds to the point award counter.
func RecordPointAwards(n int) {
	globalManager.awardsTotal.Add(float64(n))
}

// RecordRunDuration records the full pipeline run duration in milliseconds.
func RecordRunDuration(durationMs float64) {
	globalManager.runDuration.Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
