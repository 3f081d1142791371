package models

import "time"

// CacheEntry is a typed session cache entry.
// An entry whose ExpiresAt is not after now is stale and must be treated as a miss.
type CacheEntry[T any] struct {
	Data       T
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastAccess time.Time
}

// IsExpired reports whether the entry is stale at the given instant
func (e *CacheEntry[T]) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// StoreEntry is the serialized form kept in byte-level stores
type StoreEntry struct {
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"created_at"`
	StaleAt   int64  `json:"stale_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewStoreEntry builds a StoreEntry for the given TTL starting now
func NewStoreEntry(val []byte, ttl TTL, now time.Time) StoreEntry {
	created := now.Unix()
	return StoreEntry{
		Data:      val,
		CreatedAt: created,
		StaleAt:   created + int64(ttl.Fresh.Seconds()),
		ExpiresAt: created + int64(ttl.Fresh.Seconds()) + int64(ttl.Stale.Seconds()),
	}
}

// IsFresh reports whether the entry is still within its fresh window
func (e *StoreEntry) IsFresh() bool {
	return time.Now().Unix() < e.StaleAt
}

// IsExpired reports whether the entry is past its stale window
func (e *StoreEntry) IsExpired() bool {
	return time.Now().Unix() >= e.ExpiresAt
}
