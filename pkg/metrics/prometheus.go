// Package metrics provides Prometheus metrics for the jury evaluation store.
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

// Manager manages all Prometheus metrics for the jury service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Persistence
	storeLoadDuration *prometheus.HistogramVec
	storeSaveDuration *prometheus.HistogramVec
	storeFailures     *prometheus.CounterVec
	storeResets       prometheus.Counter

	// Read cache
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheInvalidations prometheus.Counter

	// Repository
	mutations      *prometheus.CounterVec
	domainErrors   *prometheus.CounterVec
	cascadedScores prometheus.Counter
	entityCount    *prometheus.GaugeVec

	// Change notifier
	notifyPublished   prometheus.Counter
	notifyDelivered   prometheus.Counter
	notifyCoalesced   prometheus.Counter
	notifyPanics      prometheus.Counter
	notifySubscribers prometheus.Gauge

	// Aggregation
	aggregationLatency prometheus.Histogram

	// HTTP (metrics and health endpoints only)
	httpRequests *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "jury",
		subsystem:        "evaluation",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
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

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.storeLoadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_load_duration_milliseconds"),
		Help:        "Snapshot load latency in milliseconds by storage driver",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"driver"})

	m.storeSaveDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_save_duration_milliseconds"),
		Help:        "Snapshot save latency in milliseconds by storage driver",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"driver"})

	m.storeFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_failures_total"),
		Help:        "Storage failures by driver and operation",
		ConstLabels: labels,
	}, []string{"driver", "op"})

	m.storeResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_resets_total"),
		Help:        "Loads that fell back to an empty snapshot after a read failure or corrupt payload",
		ConstLabels: labels,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cache_hits_total"),
		Help:        "Snapshot reads served from the read cache",
		ConstLabels: labels,
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cache_misses_total"),
		Help:        "Snapshot reads that loaded from the store",
		ConstLabels: labels,
	})

	m.cacheInvalidations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cache_invalidations_total"),
		Help:        "Snapshots installed into the cache after a write",
		ConstLabels: labels,
	})

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("mutations_total"),
		Help:        "Committed mutations by entity and operation",
		ConstLabels: labels,
	}, []string{"entity", "op"})

	m.domainErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_total"),
		Help:        "Rejected operations by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.cascadedScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cascaded_scores_total"),
		Help:        "Scores removed by project or judge deletion",
		ConstLabels: labels,
	})

	m.entityCount = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("entities"),
		Help:        "Current number of records per collection",
		ConstLabels: labels,
	}, []string{"entity"})

	m.notifyPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("notify_published_total"),
		Help:        "Change notifications published",
		ConstLabels: labels,
	})

	m.notifyDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("notify_delivered_total"),
		Help:        "Subscriber handler invocations",
		ConstLabels: labels,
	})

	m.notifyCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("notify_coalesced_total"),
		Help:        "Notifications folded into an already pending refresh",
		ConstLabels: labels,
	})

	m.notifyPanics = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("notify_handler_panics_total"),
		Help:        "Subscriber handlers that panicked",
		ConstLabels: labels,
	})

	m.notifySubscribers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("notify_subscribers"),
		Help:        "Current number of change subscribers",
		ConstLabels: labels,
	})

	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("aggregation_duration_milliseconds"),
		Help:        "Time to compute rankings or dashboard aggregates in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "HTTP requests to the operational endpoints",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("memory_usage_bytes"),
		Help:        "Current memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("goroutine_count"),
		Help:        "Current number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("gc_pause_time_milliseconds"),
		Help:        "Garbage collection pause time in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often sampled gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RefreshInterval reports the global manager's gauge refresh period.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// RecordStoreLoad records a snapshot load latency.
func RecordStoreLoad(driver string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeLoadDuration.WithLabelValues(driver).Observe(latencyMs)
}

// RecordStoreSave records a snapshot save latency.
func RecordStoreSave(driver string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeSaveDuration.WithLabelValues(driver).Observe(latencyMs)
}

// RecordStoreFailure counts a failed storage operation.
func RecordStoreFailure(driver, op string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeFailures.WithLabelValues(driver, op).Inc()
}

// RecordStoreReset counts a load that fell back to an empty snapshot.
func RecordStoreReset() {
	if !globalManager.enabled {
		return
	}
	globalManager.storeResets.Inc()
}

// RecordCacheHit counts a read served from the cache.
func RecordCacheHit() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss counts a read that went to the store.
func RecordCacheMiss() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheMisses.Inc()
}

// RecordCacheInvalidation counts a post-write cache refresh.
func RecordCacheInvalidation() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheInvalidations.Inc()
}

// RecordMutation counts a committed mutation.
func RecordMutation(entity, op string) {
	if !globalManager.enabled {
		return
	}
	globalManager.mutations.WithLabelValues(entity, op).Inc()
}

// RecordDomainError counts a rejected operation by error kind.
func RecordDomainError(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.domainErrors.WithLabelValues(kind).Inc()
}

// RecordCascadedScores counts scores removed by a cascading delete.
func RecordCascadedScores(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.cascadedScores.Add(float64(n))
}

// UpdateEntityCount sets the record count for a collection.
func UpdateEntityCount(entity string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.entityCount.WithLabelValues(entity).Set(float64(count))
}

// RecordNotifyPublished counts a published change notification.
func RecordNotifyPublished() {
	if !globalManager.enabled {
		return
	}
	globalManager.notifyPublished.Inc()
}

// RecordNotifyDelivered counts a subscriber handler invocation.
func RecordNotifyDelivered() {
	if !globalManager.enabled {
		return
	}
	globalManager.notifyDelivered.Inc()
}

// RecordNotifyCoalesced counts a notification folded into a pending one.
func RecordNotifyCoalesced() {
	if !globalManager.enabled {
		return
	}
	globalManager.notifyCoalesced.Inc()
}

// RecordNotifyPanic counts a panicking subscriber handler.
func RecordNotifyPanic() {
	if !globalManager.enabled {
		return
	}
	globalManager.notifyPanics.Inc()
}

// UpdateSubscriberCount sets the number of change subscribers.
func UpdateSubscriberCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.notifySubscribers.Set(float64(count))
}

// RecordAggregationLatency records the time spent computing derived values.
func RecordAggregationLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.aggregationLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry holding the global metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Since returns the elapsed time since start in fractional milliseconds.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
