// Package tiered backs a typed fetcher with a byte-level store.
package tiered

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"go-content-cache/internal/cache/strategy"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
)

// Tier wraps fetchers of T with a Store using JSON encoding
type Tier[T any] struct {
	store  interfaces.Store
	logger *zap.Logger
}

// New creates a Tier over the given store
func New[T any](store interfaces.Store, logger *zap.Logger) *Tier[T] {
	return &Tier[T]{store: store, logger: logger}
}

// ReadThrough serves fresh store entries and fetches otherwise.
// Fetched values are written back; a failed fetch falls back to a stale entry.
func (t *Tier[T]) ReadThrough(key string, ttl models.TTL, fetch strategy.Fetcher[T]) strategy.Fetcher[T] {
	return func(ctx context.Context) (T, error) {
		if entry, found := t.store.Get(key); found && entry.IsFresh() {
			if val, err := t.decode(key, entry); err == nil {
				return val, nil
			}
		}
		return t.fetchAndWrite(ctx, key, ttl, fetch)
	}
}

// WriteThrough always fetches and writes the result to the store.
// A failed fetch falls back to a stale entry.
func (t *Tier[T]) WriteThrough(key string, ttl models.TTL, fetch strategy.Fetcher[T]) strategy.Fetcher[T] {
	return func(ctx context.Context) (T, error) {
		return t.fetchAndWrite(ctx, key, ttl, fetch)
	}
}

func (t *Tier[T]) fetchAndWrite(ctx context.Context, key string, ttl models.TTL, fetch strategy.Fetcher[T]) (T, error) {
	val, err := fetch(ctx)
	if err != nil {
		if stale, ok := t.staleIfError(key); ok {
			t.logger.Warn("Serving stale store entry after fetch failure", zap.String("key", key), zap.Error(err))
			metrics.RecordStrategyResult("stale-if-error", "fallback")
			return stale, nil
		}
		return val, err
	}

	data, err := json.Marshal(val)
	if err != nil {
		t.logger.Error("Failed to encode store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("store", "encode")
		return val, nil
	}
	t.store.Set(key, data, ttl)

	return val, nil
}

func (t *Tier[T]) staleIfError(key string) (T, bool) {
	entry, found := t.store.GetStale(key)
	if !found {
		var zero T
		return zero, false
	}
	val, err := t.decode(key, entry)
	return val, err == nil
}

func (t *Tier[T]) decode(key string, entry *models.StoreEntry) (T, error) {
	var val T
	if err := json.Unmarshal(entry.Data, &val); err != nil {
		t.logger.Warn("Failed to decode store entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("store", "decode")
		t.store.Delete(key)
		return val, fmt.Errorf("failed to decode store entry: %w", err)
	}
	return val, nil
}
