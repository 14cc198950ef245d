// Package metrics provides Prometheus metrics for the rarepour recommender service.
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

// Price match outcomes used as label values.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
	MatchMiss  = "miss"
)

// Manager manages all Prometheus metrics for the recommender.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Recommendation metrics
	recommendationRequests prometheus.Counter
	recommendationsServed  prometheus.Histogram
	recommendationsEmpty   prometheus.Counter
	recommendationLatency  prometheus.Histogram
	candidatesConsidered   prometheus.Histogram
	priceMatches           *prometheus.CounterVec
	malformedRecords       *prometheus.CounterVec

	// Snapshot metrics
	snapshotRefreshDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotRefreshCount    prometheus.Counter
	snapshotRefreshErrors   prometheus.Counter
	snapshotStaleServed     prometheus.Counter
	snapshotOpenings        prometheus.Gauge
	snapshotHouses          prometheus.Gauge
	snapshotCatalogEntries  prometheus.Gauge
	snapshotMasterClasses   prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "rarepour",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(base string) string {
	if m.metricPrefix == "" {
		return base
	}
	return m.metricPrefix + "_" + base
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.recommendationRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("requests_total"),
		Help:        "Total number of recommendation requests evaluated",
		ConstLabels: labels,
	})

	m.recommendationsServed = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("recommendations_returned"),
		Help:        "Number of openings returned per request",
		Buckets:     []float64{0, 1, 2, 3, 4},
		ConstLabels: labels,
	})

	m.recommendationsEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("empty_results_total"),
		Help:        "Requests for which no opening qualified",
		ConstLabels: labels,
	})

	m.recommendationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("latency_milliseconds"),
		Help:        "Time spent ranking openings for one request in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.candidatesConsidered = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("candidates_scored"),
		Help:        "Openings that survived time and conflict filtering and were scored",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		ConstLabels: labels,
	})

	m.priceMatches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("price_matches_total"),
			Help:        "Price lookups by outcome (exact, fuzzy, miss)",
			ConstLabels: labels,
		},
		[]string{"outcome"},
	)

	m.malformedRecords = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("malformed_records_total"),
			Help:        "Records dropped because of missing or unparsable fields",
			ConstLabels: labels,
		},
		[]string{"source"},
	)

	m.snapshotRefreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_refresh_duration_milliseconds"),
		Help:        "Data snapshot reload duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_last_unix"),
		Help:        "Unix timestamp of the last successful snapshot publish",
		ConstLabels: labels,
	})

	m.snapshotRefreshCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_refresh_total"),
		Help:        "Total number of snapshots published",
		ConstLabels: labels,
	})

	m.snapshotRefreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_refresh_errors_total"),
		Help:        "Total number of failed snapshot reloads",
		ConstLabels: labels,
	})

	m.snapshotStaleServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_stale_served_total"),
		Help:        "Reads answered from an expired snapshot after a failed reload",
		ConstLabels: labels,
	})

	m.snapshotOpenings = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_openings"),
		Help:        "Rare openings in the current snapshot",
		ConstLabels: labels,
	})

	m.snapshotHouses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_houses"),
		Help:        "Known houses in the current snapshot",
		ConstLabels: labels,
	})

	m.snapshotCatalogEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_catalog_entries"),
		Help:        "Price catalog entries in the current snapshot",
		ConstLabels: labels,
	})

	m.snapshotMasterClasses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("snapshot_master_classes"),
		Help:        "Master class sessions in the current snapshot",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Total number of errors by type",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of operations that resulted in errors",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordRecommendationRequest counts one evaluated request and its outcome size.
func RecordRecommendationRequest(returned int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.recommendationRequests.Inc()
	globalManager.recommendationsServed.Observe(float64(returned))
	globalManager.recommendationLatency.Observe(latencyMs)
	if returned == 0 {
		globalManager.recommendationsEmpty.Inc()
	}
}

// RecordCandidatesScored records how many openings reached the scoring stage.
func RecordCandidatesScored(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.candidatesConsidered.Observe(float64(count))
}

// RecordPriceMatch counts a price lookup outcome (MatchExact, MatchFuzzy, MatchMiss).
func RecordPriceMatch(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.priceMatches.WithLabelValues(outcome).Inc()
}

// RecordMalformedRecord counts a dropped record from the named source.
func RecordMalformedRecord(source string) {
	if !globalManager.enabled {
		return
	}
	globalManager.malformedRecords.WithLabelValues(source).Inc()
}

// RecordSnapshotRefresh records a successful snapshot publish.
func RecordSnapshotRefresh(durationMs float64, publishedAt time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotRefreshDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(publishedAt.Unix()))
	globalManager.snapshotRefreshCount.Inc()
}

// RecordSnapshotRefreshError counts a failed reload.
func RecordSnapshotRefreshError() {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotRefreshErrors.Inc()
}

// RecordSnapshotStaleServed counts a read served from an expired snapshot.
func RecordSnapshotStaleServed() {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotStaleServed.Inc()
}

// UpdateSnapshotSizes sets the gauges describing the current snapshot.
func UpdateSnapshotSizes(openings, houses, catalogEntries, masterClasses int) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotOpenings.Set(float64(openings))
	globalManager.snapshotHouses.Set(float64(houses))
	globalManager.snapshotCatalogEntries.Set(float64(catalogEntries))
	globalManager.snapshotMasterClasses.Set(float64(masterClasses))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by its type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that failed.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SystemRefreshInterval reports how often system gauges should be sampled.
func SystemRefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
