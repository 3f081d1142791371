// Package session implements the process-local session cache: a typed
// key/value store with per-entry TTL and least-recently-used eviction.
//
// Expired entries are never returned. They are purged lazily on access or by
// PurgeExpired. When a Set pushes the cache over MaxSize, the entries with the
// oldest last access are evicted until it fits again.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
)

const (
	// DefaultTTL is applied when neither the config nor Set provide one
	DefaultTTL = 5 * time.Minute
	// DefaultMaxSize bounds the number of entries
	DefaultMaxSize = 200
)

// Config configures a session cache
type Config struct {
	TTL     time.Duration
	MaxSize int
	// Clock is the time source, the wall clock when nil
	Clock clock.Clock
}

// Stats is a read-only snapshot of the cache state
type Stats struct {
	Size             int           `json:"size"`
	TTL              time.Duration `json:"ttl"` // seconds on the wire
	MaxSize          int           `json:"maxSize"`
	OldestLastAccess time.Time     `json:"oldestLastAccess"`
	NewestLastAccess time.Time     `json:"newestLastAccess"`
}

// MarshalJSON reports TTL in whole seconds instead of nanoseconds
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		TTL int64 `json:"ttl"`
	}{plain: plain(s), TTL: int64(s.TTL / time.Second)})
}

// Cache is a typed TTL + LRU cache safe for concurrent use
type Cache[T any] struct {
	name    string
	ttl     time.Duration
	maxSize int
	clock   clock.Clock
	logger  *zap.Logger

	mu sync.Mutex
	// entries keeps keys ordered by last access, oldest first
	entries *simplelru.LRU[string, *models.CacheEntry[T]]
}

// New creates a session cache. The name labels its metrics and logs.
func New[T any](name string, cfg Config, logger *zap.Logger) (*Cache[T], error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := simplelru.NewLRU[string, *models.CacheEntry[T]](cfg.MaxSize, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU list: %w", err)
	}

	return &Cache[T]{
		name:    name,
		ttl:     cfg.TTL,
		maxSize: cfg.MaxSize,
		clock:   cfg.Clock,
		logger:  logger.With(zap.String("cache", name)),
		entries: entries,
	}, nil
}

// Name returns the cache name
func (c *Cache[T]) Name() string {
	return c.name
}

// Set stores data under key for ttl. A ttl of 0 (or any negative value)
// means "use the cache's default TTL", it never stores an already expired entry.
// The oldest-accessed entries are evicted if the cache grows past MaxSize.
func (c *Cache[T]) Set(key string, data T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.clock.Now()
	entry := &models.CacheEntry[T]{
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
		LastAccess: now,
	}

	c.mu.Lock()
	evicted := c.entries.Add(key, entry)
	size := c.entries.Len()
	c.mu.Unlock()

	if evicted {
		metrics.RecordSessionEviction(c.name, 1)
		c.logger.Debug("Evicted least recently used entry", zap.Int("size", size))
	}
	metrics.UpdateSessionEntries(c.name, size)
}

// Get returns the cached value if present and not expired.
// A hit refreshes the entry's last access.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lookup(key)
	if !ok {
		metrics.RecordSessionMiss(c.name)
		return zero, false
	}

	// Get moves the key to the most recently used end
	c.entries.Get(key)
	entry.LastAccess = c.clock.Now()
	metrics.RecordSessionHit(c.name)
	return entry.Data, true
}

// Has reports whether key holds an unexpired value without touching its recency
func (c *Cache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.lookup(key)
	return ok
}

// lookup returns the live entry for key, dropping it if expired. Caller holds mu.
func (c *Cache[T]) lookup(key string) (*models.CacheEntry[T], bool) {
	entry, ok := c.entries.Peek(key)
	if !ok {
		return nil, false
	}
	if entry.IsExpired(c.clock.Now()) {
		c.entries.Remove(key)
		metrics.RecordSessionExpired(c.name, 1)
		return nil, false
	}
	return entry, true
}

// Delete removes a single key
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Remove(key)
}

// Invalidate removes every key matching the regular expression pattern.
// An empty pattern clears the cache. A malformed pattern is logged and
// leaves the cache untouched. It returns the number of removed entries.
func (c *Cache[T]) Invalidate(pattern string) int {
	if pattern == "" {
		return c.Clear()
	}

	matcher, err := ParsePattern(pattern)
	if err != nil {
		c.logger.Warn("Ignoring malformed invalidation pattern",
			zap.String("pattern", pattern),
			zap.Error(err))
		metrics.RecordCacheError(c.name, "pattern")
		return 0
	}
	return c.InvalidateMatching(matcher)
}

// InvalidateMatching removes every key accepted by the matcher
func (c *Cache[T]) InvalidateMatching(matcher Matcher) int {
	c.mu.Lock()
	removed := 0
	for _, key := range c.entries.Keys() {
		if matcher.Match(key) {
			c.entries.Remove(key)
			removed++
		}
	}
	size := c.entries.Len()
	c.mu.Unlock()

	metrics.RecordInvalidation(c.name, removed)
	metrics.UpdateSessionEntries(c.name, size)
	c.logger.Debug("Invalidated cache entries", zap.Int("removed", removed))
	return removed
}

// Clear removes all entries
func (c *Cache[T]) Clear() int {
	c.mu.Lock()
	removed := c.entries.Len()
	c.entries.Purge()
	c.mu.Unlock()

	metrics.RecordInvalidation(c.name, removed)
	metrics.UpdateSessionEntries(c.name, 0)
	c.logger.Debug("Cleared cache", zap.Int("removed", removed))
	return removed
}

// PurgeExpired sweeps all expired entries and returns how many were removed
func (c *Cache[T]) PurgeExpired() int {
	c.mu.Lock()
	now := c.clock.Now()
	purged := 0
	for _, key := range c.entries.Keys() {
		entry, ok := c.entries.Peek(key)
		if ok && entry.IsExpired(now) {
			c.entries.Remove(key)
			purged++
		}
	}
	size := c.entries.Len()
	c.mu.Unlock()

	if purged > 0 {
		metrics.RecordSessionExpired(c.name, purged)
	}
	metrics.UpdateSessionEntries(c.name, size)
	return purged
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a snapshot for observability
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Size:    c.entries.Len(),
		TTL:     c.ttl,
		MaxSize: c.maxSize,
	}
	if _, oldest, ok := c.entries.GetOldest(); ok {
		stats.OldestLastAccess = oldest.LastAccess
	}
	if keys := c.entries.Keys(); len(keys) > 0 {
		if newest, ok := c.entries.Peek(keys[len(keys)-1]); ok {
			stats.NewestLastAccess = newest.LastAccess
		}
	}
	return stats
}
