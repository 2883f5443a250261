// Package metrics provides Prometheus metrics for the eventbuddy suggestion service.
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

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Suggestion pipeline
	suggestionsServed  prometheus.Counter
	suggestionErrors   *prometheus.CounterVec
	rankingLatency     prometheus.Histogram
	corpusDocuments    prometheus.Histogram
	vocabularySize     prometheus.Histogram
	degenerateProfiles prometheus.Counter
	returnedEvents     prometheus.Histogram

	// Data access
	storeFetchLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	catalogSize       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eventbuddy",
		subsystem:        "suggest",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
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

// initializeMetrics creates all the Prometheus collectors.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.suggestionsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("suggestions_served_total"),
		Help:        "Total number of successful suggestion rankings",
		ConstLabels: labels,
	})

	m.suggestionErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("suggestion_errors_total"),
		Help:        "Suggestion requests that did not produce a ranking, by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.rankingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ranking_latency_milliseconds"),
		Help:        "Time spent vectorizing and ranking one request",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.corpusDocuments = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("corpus_documents"),
		Help:        "Number of documents (user + events) vectorized per request",
		Buckets:     prometheus.ExponentialBuckets(2, 2, 14),
		ConstLabels: labels,
	})

	m.vocabularySize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("vocabulary_terms"),
		Help:        "Distinct terms in the per-request vocabulary",
		Buckets:     prometheus.ExponentialBuckets(4, 2, 14),
		ConstLabels: labels,
	})

	m.degenerateProfiles = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("degenerate_profiles_total"),
		Help:        "Rankings computed for a user profile with no usable terms",
		ConstLabels: labels,
	})

	m.returnedEvents = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("returned_events"),
		Help:        "Events returned per suggestion",
		Buckets:     prometheus.LinearBuckets(0, 1, 11),
		ConstLabels: labels,
	})

	m.storeFetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        m.name("fetch_latency_milliseconds"),
		Help:        "Store fetch latency by operation and driver",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"driver", "op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        m.name("errors_total"),
		Help:        "Store errors by operation and driver",
		ConstLabels: labels,
	}, []string{"driver", "op"})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        m.name("breaker_state"),
		Help:        "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		ConstLabels: labels,
	}, []string{"name"})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        m.name("catalog_events"),
		Help:        "Events returned by the most recent catalog fetch",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("requests_total"),
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("memory_usage_bytes"),
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("goroutines"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        m.name("gc_pause_milliseconds"),
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 25, 50},
		ConstLabels: labels,
	})
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval returns how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RecordSuggestionServed counts a successful ranking.
func RecordSuggestionServed(returned int) {
	if !globalManager.enabled {
		return
	}
	globalManager.suggestionsServed.Inc()
	globalManager.returnedEvents.Observe(float64(returned))
}

// RecordSuggestionError counts a failed suggestion request by reason.
func RecordSuggestionError(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.suggestionErrors.WithLabelValues(reason).Inc()
}

// RecordRankingLatency records vectorize+rank time in milliseconds.
func RecordRankingLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.rankingLatency.Observe(latencyMs)
}

// RecordCorpus records corpus and vocabulary dimensions for one ranking.
func RecordCorpus(documents, terms int) {
	if !globalManager.enabled {
		return
	}
	globalManager.corpusDocuments.Observe(float64(documents))
	globalManager.vocabularySize.Observe(float64(terms))
}

// RecordDegenerateProfile counts a ranking for a profile without terms.
func RecordDegenerateProfile() {
	if !globalManager.enabled {
		return
	}
	globalManager.degenerateProfiles.Inc()
}

// RecordStoreFetch records the latency of one store call.
func RecordStoreFetch(driver, op string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeFetchLatency.WithLabelValues(driver, op).Observe(latencyMs)
}

// RecordStoreError counts a failed store call.
func RecordStoreError(driver, op string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeErrors.WithLabelValues(driver, op).Inc()
}

// UpdateBreakerState publishes a circuit breaker state as a number.
func UpdateBreakerState(name string, state int) {
	if !globalManager.enabled {
		return
	}
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// UpdateCatalogSize sets the size of the last fetched event catalog.
func UpdateCatalogSize(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.catalogSize.Set(float64(n))
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
