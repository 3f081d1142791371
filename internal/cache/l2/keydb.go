package l2

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-content-cache/internal/config"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
)

// Ensure KeyDBCache implements interfaces.Store
var _ interfaces.Store = (*KeyDBCache)(nil)

// KeyDBCache implements the shared store using Redis/KeyDB
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Get retrieves a non-expired entry; callers check IsFresh for freshness
func (kc *KeyDBCache) Get(key string) (*models.StoreEntry, bool) {
	entry, ok := kc.load(key)
	if ok {
		metrics.RecordStoreHit("l2")
	}
	return entry, ok
}

// GetStale retrieves value from KeyDB cache regardless of freshness
func (kc *KeyDBCache) GetStale(key string) (*models.StoreEntry, bool) {
	return kc.load(key)
}

func (kc *KeyDBCache) load(key string) (*models.StoreEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			kc.logger.Error("L2 cache get error", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError("l2", "get")
		}
		return nil, false
	}

	var entry models.StoreEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		kc.logger.Error("Failed to unmarshal L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "decode")
		kc.Delete(key)
		return nil, false
	}

	if entry.IsExpired() {
		kc.Delete(key)
		return nil, false
	}

	return &entry, true
}

// Set stores value in KeyDB cache with TTL
func (kc *KeyDBCache) Set(key string, val []byte, ttl models.TTL) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	data, err := json.Marshal(models.NewStoreEntry(val, ttl, time.Now()))
	if err != nil {
		kc.logger.Error("Failed to marshal L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "encode")
		return
	}

	// Key lives for the fresh and stale windows combined
	if err := kc.client.Set(ctx, key, data, ttl.Fresh+ttl.Stale).Err(); err != nil {
		kc.logger.Error("Failed to set L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "set")
	}
}

// Delete removes entry from KeyDB cache
func (kc *KeyDBCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Del(ctx, key).Err(); err != nil {
		kc.logger.Error("Failed to delete L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "delete")
	}
}

// DeleteMatching scans keys under the configured match pattern and deletes those accepted by match
func (kc *KeyDBCache) DeleteMatching(match func(key string) bool) int {
	removed := 0
	var cursor uint64

	for {
		ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
		keys, next, err := kc.client.Scan(ctx, cursor, kc.config.ScanMatch, kc.config.ScanCount).Result()
		cancel()
		if err != nil {
			kc.logger.Error("L2 cache scan error", zap.String("match", kc.config.ScanMatch), zap.Error(err))
			metrics.RecordCacheError("l2", "scan")
			return removed
		}

		var batch []string
		for _, key := range keys {
			if match(key) {
				batch = append(batch, key)
			}
		}

		if len(batch) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
			n, err := kc.client.Del(ctx, batch...).Result()
			cancel()
			if err != nil {
				kc.logger.Error("Failed to delete L2 cache entries", zap.Int("keys", len(batch)), zap.Error(err))
				metrics.RecordCacheError("l2", "delete")
			}
			removed += int(n)
		}

		if next == 0 {
			return removed
		}
		cursor = next
	}
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
