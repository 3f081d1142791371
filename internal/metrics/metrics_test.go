package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheMetrics(t *testing.T) {
	// Metrics are package-level variables, registered on import.
	// These checks verify the helpers don't panic and move the right series.

	t.Run("RecordSessionHit", func(t *testing.T) {
		before := testutil.ToFloat64(SessionHits.WithLabelValues("metrics-test"))
		RecordSessionHit("metrics-test")
		assert.Equal(t, before+1, testutil.ToFloat64(SessionHits.WithLabelValues("metrics-test")))
	})

	t.Run("RecordSessionMiss", func(t *testing.T) {
		before := testutil.ToFloat64(SessionMisses.WithLabelValues("metrics-test"))
		RecordSessionMiss("metrics-test")
		assert.Equal(t, before+1, testutil.ToFloat64(SessionMisses.WithLabelValues("metrics-test")))
	})

	t.Run("RecordSessionEviction", func(t *testing.T) {
		before := testutil.ToFloat64(SessionEvictions.WithLabelValues("metrics-test"))
		RecordSessionEviction("metrics-test", 3)
		assert.Equal(t, before+3, testutil.ToFloat64(SessionEvictions.WithLabelValues("metrics-test")))
	})

	t.Run("UpdateSessionEntries", func(t *testing.T) {
		UpdateSessionEntries("metrics-test", 42)
		assert.Equal(t, float64(42), testutil.ToFloat64(SessionEntries.WithLabelValues("metrics-test")))
	})

	t.Run("RecordCacheError", func(t *testing.T) {
		// This should not panic
		RecordCacheError("l2_keydb", "decode")
	})

	t.Run("UpdateStoreCapacity", func(t *testing.T) {
		UpdateStoreCapacity("l2_memory", 1000000, 12)
		assert.Equal(t, float64(1000000), testutil.ToFloat64(StoreCapacity.WithLabelValues("l2_memory")))
		assert.Equal(t, float64(12), testutil.ToFloat64(StoreKeys.WithLabelValues("l2_memory")))
	})

	t.Run("RecordUpstreamRequest", func(t *testing.T) {
		before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("Ashaar", "list", "200"))
		RecordUpstreamRequest("Ashaar", "list", 200)
		assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("Ashaar", "list", "200")))
	})

	t.Run("TimeUpstreamRequest", func(t *testing.T) {
		// This should not panic
		timer := TimeUpstreamRequest("list")
		timer()
	})

	t.Run("RecordStrategyResult", func(t *testing.T) {
		before := testutil.ToFloat64(StrategyResults.WithLabelValues("network-first", "fallback"))
		RecordStrategyResult("network-first", "fallback")
		assert.Equal(t, before+1, testutil.ToFloat64(StrategyResults.WithLabelValues("network-first", "fallback")))
	})
}
