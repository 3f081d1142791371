package multi

import (
	"time"

	"go.uber.org/zap"

	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
)

// Ensure MultiStore implements interfaces.Store
var _ interfaces.Store = (*MultiStore)(nil)

// MultiStore is a composite store that reads tiers in order and writes to all of them.
// A hit in a later tier is promoted into the earlier tiers.
type MultiStore struct {
	stores []interfaces.Store
	logger *zap.Logger
}

// NewMultiStore creates a new MultiStore instance with provided tiers, fastest first
func NewMultiStore(stores []interfaces.Store, logger *zap.Logger) *MultiStore {
	return &MultiStore{
		stores: stores,
		logger: logger,
	}
}

// Get retrieves the entry from the first tier that has it
func (ms *MultiStore) Get(key string) (*models.StoreEntry, bool) {
	if len(ms.stores) == 0 {
		ms.logger.Warn("No stores available for get operation", zap.String("key", key))
		return nil, false
	}

	for i, store := range ms.stores {
		if entry, found := store.Get(key); found {
			ms.promote(key, entry, i)
			return entry, true
		}
	}
	return nil, false
}

// GetStale retrieves a possibly stale entry from the first tier that has it
func (ms *MultiStore) GetStale(key string) (*models.StoreEntry, bool) {
	for _, store := range ms.stores {
		if entry, found := store.GetStale(key); found {
			return entry, true
		}
	}
	return nil, false
}

// Set stores value in all tiers
func (ms *MultiStore) Set(key string, val []byte, ttl models.TTL) {
	if len(ms.stores) == 0 {
		ms.logger.Warn("No stores available for set operation", zap.String("key", key))
		return
	}

	for _, store := range ms.stores {
		store.Set(key, val, ttl)
	}
}

// Delete removes entry from all tiers
func (ms *MultiStore) Delete(key string) {
	for _, store := range ms.stores {
		store.Delete(key)
	}
}

// DeleteMatching removes matching entries from all tiers and returns the total removed
func (ms *MultiStore) DeleteMatching(match func(key string) bool) int {
	removed := 0
	for _, store := range ms.stores {
		removed += store.DeleteMatching(match)
	}
	return removed
}

// Len returns the number of tiers
func (ms *MultiStore) Len() int {
	return len(ms.stores)
}

// promote copies an entry found in tier idx into the faster tiers, keeping its remaining lifetime
func (ms *MultiStore) promote(key string, entry *models.StoreEntry, idx int) {
	if idx == 0 {
		return
	}

	ttl := remainingTTL(entry, time.Now())
	if ttl.Fresh <= 0 && ttl.Stale <= 0 {
		return
	}

	for _, store := range ms.stores[:idx] {
		store.Set(key, entry.Data, ttl)
	}
	ms.logger.Debug("Promoted store entry", zap.String("key", key), zap.Int("from_tier", idx))
}

func remainingTTL(entry *models.StoreEntry, now time.Time) models.TTL {
	nowUnix := now.Unix()

	fresh := entry.StaleAt - nowUnix
	stale := entry.ExpiresAt - entry.StaleAt
	if fresh < 0 {
		// already stale: keep only what is left of the stale window
		stale = entry.ExpiresAt - nowUnix
		fresh = 0
	}

	return models.TTL{
		Fresh: time.Duration(fresh) * time.Second,
		Stale: time.Duration(stale) * time.Second,
	}
}
