// Package strategy layers the cacheFirst, networkFirst and
// staleWhileRevalidate fetch strategies on top of a session cache.
//
// Concurrent misses for the same key share one upstream call. Retries and
// timeouts are left to the fetcher.
package strategy

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-content-cache/internal/cache/session"
	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
)

// Fetcher loads a fresh value from upstream
type Fetcher[T any] func(ctx context.Context) (T, error)

// Strategies serves values of one payload shape through a session cache
type Strategies[T any] struct {
	cache  *session.Cache[T]
	group  singleflight.Group
	logger *zap.Logger
}

// New creates strategies bound to the given session cache
func New[T any](cache *session.Cache[T], logger *zap.Logger) *Strategies[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategies[T]{
		cache:  cache,
		logger: logger.With(zap.String("cache", cache.Name())),
	}
}

// Cache returns the underlying session cache
func (s *Strategies[T]) Cache() *session.Cache[T] {
	return s.cache
}

// CacheFirst returns the cached value if present, otherwise fetches, caches and returns it
func (s *Strategies[T]) CacheFirst(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, error) {
	val, _, err := s.cacheFirst(ctx, key, fetch, ttl)
	return val, err
}

// NetworkFirst fetches and caches the value. If the fetch fails it falls
// back to the cached value, and only returns the error when nothing is cached.
func (s *Strategies[T]) NetworkFirst(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, error) {
	val, _, err := s.networkFirst(ctx, key, fetch, ttl)
	return val, err
}

// StaleWhileRevalidate returns the cached value immediately and refreshes it
// in the background; the returned channel yields the refresh result and is
// then closed. Without a cached value it blocks on the fetcher once and the
// channel is already closed.
func (s *Strategies[T]) StaleWhileRevalidate(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, <-chan error, error) {
	val, _, done, err := s.staleWhileRevalidate(ctx, key, fetch, ttl)
	return val, done, err
}

// Serve runs the named strategy and reports how the value was obtained
func (s *Strategies[T]) Serve(ctx context.Context, strategy models.Strategy, key string, fetch Fetcher[T], ttl time.Duration) (T, models.CacheStatus, error) {
	switch strategy {
	case models.StrategyNetworkFirst:
		return s.networkFirst(ctx, key, fetch, ttl)
	case models.StrategyStaleWhileRevalidate:
		val, status, _, err := s.staleWhileRevalidate(ctx, key, fetch, ttl)
		return val, status, err
	case models.StrategyCacheFirst, "":
		return s.cacheFirst(ctx, key, fetch, ttl)
	default:
		var zero T
		return zero, models.CacheStatusMiss, fmt.Errorf("unknown strategy '%s'", strategy)
	}
}

func (s *Strategies[T]) cacheFirst(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, models.CacheStatus, error) {
	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordStrategyResult(string(models.StrategyCacheFirst), "hit")
		return cached, models.CacheStatusHit, nil
	}

	metrics.RecordStrategyResult(string(models.StrategyCacheFirst), "miss")
	val, err := s.fetchAndStore(ctx, key, fetch, ttl)
	return val, models.CacheStatusMiss, err
}

func (s *Strategies[T]) networkFirst(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, models.CacheStatus, error) {
	val, err := s.fetchAndStore(ctx, key, fetch, ttl)
	if err == nil {
		metrics.RecordStrategyResult(string(models.StrategyNetworkFirst), "network")
		return val, models.CacheStatusMiss, nil
	}

	if cached, ok := s.cache.Get(key); ok {
		s.logger.Warn("Fetch failed, serving cached value",
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordStrategyResult(string(models.StrategyNetworkFirst), "fallback")
		return cached, models.CacheStatusStale, nil
	}

	metrics.RecordStrategyResult(string(models.StrategyNetworkFirst), "error")
	return val, models.CacheStatusMiss, err
}

func (s *Strategies[T]) staleWhileRevalidate(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, models.CacheStatus, <-chan error, error) {
	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordStrategyResult(string(models.StrategyStaleWhileRevalidate), "revalidate")
		return cached, models.CacheStatusHit, s.revalidate(ctx, key, fetch, ttl), nil
	}

	metrics.RecordStrategyResult(string(models.StrategyStaleWhileRevalidate), "miss")
	done := make(chan error)
	close(done)
	val, err := s.fetchAndStore(ctx, key, fetch, ttl)
	return val, models.CacheStatusMiss, done, err
}

// revalidate refreshes key in the background, detached from ctx cancellation
func (s *Strategies[T]) revalidate(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) <-chan error {
	done := make(chan error, 1)
	bg := context.WithoutCancel(ctx)

	go func() {
		defer close(done)
		_, err := s.fetchAndStore(bg, key, fetch, ttl)
		if err != nil {
			s.logger.Warn("Background revalidation failed", zap.String("key", key), zap.Error(err))
		}
		done <- err
	}()

	return done
}

// fetchAndStore calls fetch at most once per key at a time and caches the result.
// The shared fetch is detached from the cancellation of whichever caller
// started it, so joined callers are not failed by someone else's disconnect;
// each caller still stops waiting when its own ctx is done. Deadlines are the
// fetcher's responsibility.
func (s *Strategies[T]) fetchAndStore(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) (T, error) {
	var zero T
	shared := context.WithoutCancel(ctx)

	ch := s.group.DoChan(key, func() (interface{}, error) {
		val, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, val, ttl)
		return val, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			s.logger.Debug("Joined in-flight fetch", zap.String("key", key))
		}
		val, _ := res.Val.(T)
		return val, nil
	}
}
