package l1

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-content-cache/internal/config"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
	"go-content-cache/internal/scheduler"
)

// Ensure BigCache implements interfaces.Store
var _ interfaces.Store = (*BigCache)(nil)

// BigCache implements the in-process byte store using BigCache
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new BigCache instance
func NewBigCache(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (*BigCache, error) {
	lifeWindow := bigcacheCfg.LifeWindow
	if lifeWindow <= 0 {
		lifeWindow = 10 * time.Minute
	}

	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.HardMaxCacheSize = bigcacheCfg.Size // MB
	cfg.Verbose = false
	if bigcacheCfg.Shards > 0 {
		cfg.Shards = bigcacheCfg.Shards
	}
	if bigcacheCfg.MaxEntrySize > 0 {
		cfg.MaxEntrySize = bigcacheCfg.MaxEntrySize
	}

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
	}

	bc.startMetricsCollection(bigcacheCfg.MetricsInterval)

	return bc, nil
}

// Get retrieves a non-expired entry; callers check IsFresh for freshness
func (bc *BigCache) Get(key string) (*models.StoreEntry, bool) {
	entry, ok := bc.load(key)
	if ok {
		metrics.RecordStoreHit("l1")
	}
	return entry, ok
}

// GetStale retrieves value from cache regardless of freshness (for stale-if-error)
func (bc *BigCache) GetStale(key string) (*models.StoreEntry, bool) {
	return bc.load(key)
}

func (bc *BigCache) load(key string) (*models.StoreEntry, bool) {
	data, err := bc.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.StoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "decode")
		_ = bc.cache.Delete(key)
		return nil, false
	}

	if entry.IsExpired() {
		_ = bc.cache.Delete(key)
		return nil, false
	}

	return &entry, true
}

// Set stores value in cache with TTL
func (bc *BigCache) Set(key string, val []byte, ttl models.TTL) {
	entry := models.NewStoreEntry(val, ttl, time.Now())

	data, err := json.Marshal(entry)
	if err != nil {
		bc.logger.Error("Failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "encode")
		return
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "set")
	}
}

// Delete removes entry from cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// DeleteMatching removes every entry whose key satisfies match
func (bc *BigCache) DeleteMatching(match func(key string) bool) int {
	var keys []string

	it := bc.cache.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			continue
		}
		if match(info.Key()) {
			keys = append(keys, info.Key())
		}
	}

	removed := 0
	for _, key := range keys {
		if err := bc.cache.Delete(key); err == nil {
			removed++
		}
	}
	return removed
}

// Close closes the cache
func (bc *BigCache) Close() error {
	bc.stopMetricsCollection()
	return bc.cache.Close()
}

// GetStats returns the configured capacity in bytes and the number of stored keys
func (bc *BigCache) GetStats() (capacity, keys int64) {
	return int64(bc.cache.Capacity()), int64(bc.cache.Len())
}

func (bc *BigCache) startMetricsCollection(interval time.Duration) {
	bc.metricsScheduler = scheduler.New(interval, bc.updateMetrics)
	bc.metricsScheduler.Start()

	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection", zap.Duration("interval", interval))
}

func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

func (bc *BigCache) updateMetrics() {
	capacity, keys := bc.GetStats()
	metrics.UpdateStoreCapacity("l1", capacity, keys)
}
