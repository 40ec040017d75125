package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache memoizes proximity query results in Redis. Concurrent misses
// for the same key share one computation.
type QueryCache struct {
	store   Store
	ttl     time.Duration
	metrics *metrics.Metrics
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, wordA, wordB string, limit int) (*executor.SearchResult, bool) {
	key := buildKey(wordA, wordB, limit)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, pkgredis.ErrMiss) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.recordMiss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	c.logger.Debug("cache hit", "word_a", wordA, "word_b", wordB, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, wordA, wordB string, limit int, result *executor.SearchResult) {
	key := buildKey(wordA, wordB, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for the pair or computes, stores
// and returns it. The bool reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	wordA, wordB string,
	limit int,
	computeFn func() *executor.SearchResult,
) (*executor.SearchResult, bool) {
	if result, ok := c.Get(ctx, wordA, wordB, limit); ok {
		return result, true
	}
	key := buildKey(wordA, wordB, limit)
	val, _, _ := c.group.Do(key, func() (any, error) {
		result := computeFn()
		c.Set(ctx, wordA, wordB, limit, result)
		return result, nil
	})
	return val.(*executor.SearchResult), false
}

// Invalidate drops every cached query.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) recordHit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey keeps word order: swapping the words swaps word_a and word_b in
// the cached payload.
func buildKey(wordA, wordB string, limit int) string {
	raw := fmt.Sprintf("%s\x00%s:limit=%d", wordA, wordB, limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
