package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session cache counters, labeled by cache name (pages, records)
	SessionHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_hits_total",
			Help: "Total number of session cache hits",
		},
		[]string{"cache"},
	)

	SessionMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_misses_total",
			Help: "Total number of session cache misses",
		},
		[]string{"cache"},
	)

	SessionEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_evictions_total",
			Help: "Total number of entries evicted by the LRU bound",
		},
		[]string{"cache"},
	)

	SessionExpirations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_expirations_total",
			Help: "Total number of entries dropped after their TTL",
		},
		[]string{"cache"},
	)

	SessionInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_invalidated_entries_total",
			Help: "Total number of entries removed by invalidation",
		},
		[]string{"cache"},
	)

	SessionEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "session_cache_entries",
			Help: "Current number of session cache entries",
		},
		[]string{"cache"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache errors",
		},
		[]string{"level", "kind"},
	)

	// Strategy outcomes (hit, miss, fallback, revalidate, bypass)
	StrategyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_strategy_results_total",
			Help: "Total number of strategy outcomes",
		},
		[]string{"strategy", "result"},
	)

	// Shared store hits by level (l2_memory, l2_keydb)
	StoreHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_hits_total",
			Help: "Total number of shared store hits",
		},
		[]string{"level"},
	)

	StoreCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_capacity_bytes",
			Help: "In-process store capacity in bytes",
		},
		[]string{"level"},
	)

	StoreKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_keys",
			Help: "Number of keys in the in-process store",
		},
		[]string{"level"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests sent to the record API",
		},
		[]string{"table", "operation", "status_code"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of record API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of proxy route requests",
		},
		[]string{"route", "status_code"},
	)
)

// RecordSessionHit records a session cache hit
func RecordSessionHit(cache string) {
	SessionHits.WithLabelValues(cache).Inc()
}

// RecordSessionMiss records a session cache miss
func RecordSessionMiss(cache string) {
	SessionMisses.WithLabelValues(cache).Inc()
}

// RecordSessionEviction records LRU evictions
func RecordSessionEviction(cache string, count int) {
	SessionEvictions.WithLabelValues(cache).Add(float64(count))
}

// RecordSessionExpired records entries dropped after expiry
func RecordSessionExpired(cache string, count int) {
	SessionExpirations.WithLabelValues(cache).Add(float64(count))
}

// RecordInvalidation records entries removed by invalidation
func RecordInvalidation(cache string, count int) {
	SessionInvalidations.WithLabelValues(cache).Add(float64(count))
}

// UpdateSessionEntries sets the current entry count
func UpdateSessionEntries(cache string, count int) {
	SessionEntries.WithLabelValues(cache).Set(float64(count))
}

// RecordCacheError records a cache error with level and kind
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// RecordStrategyResult records the outcome of a caching strategy
func RecordStrategyResult(strategy, result string) {
	StrategyResults.WithLabelValues(strategy, result).Inc()
}

// RecordStoreHit records a shared store hit
func RecordStoreHit(level string) {
	StoreHits.WithLabelValues(level).Inc()
}

// UpdateStoreCapacity updates in-process store capacity metrics
func UpdateStoreCapacity(level string, capacity int64, keys int64) {
	StoreCapacity.WithLabelValues(level).Set(float64(capacity))
	StoreKeys.WithLabelValues(level).Set(float64(keys))
}

// RecordUpstreamRequest records a record API request
func RecordUpstreamRequest(table, operation string, statusCode int) {
	UpstreamRequests.WithLabelValues(table, operation, strconv.Itoa(statusCode)).Inc()
}

// TimeUpstreamRequest returns a timer function for measuring record API latency
func TimeUpstreamRequest(operation string) func() {
	timer := prometheus.NewTimer(UpstreamDuration.WithLabelValues(operation))
	return func() {
		timer.ObserveDuration()
	}
}

// RecordHTTPRequest records a served proxy route request
func RecordHTTPRequest(route string, statusCode int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}
