package report

import (
	"context"
	"sync"
	"time"

	"github.com/xworks/readiness/internal/platform/cache"
)

const keyPrefix = "readiness:report:"

// Cache stores rendered reports by attempt ID. A miss returns (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, attemptID string) (*Report, bool, error)
	Set(ctx context.Context, r *Report) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Report, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, *Report) error { return nil }

// MemoryCache keeps reports in memory for tests and single-node dev runs.
type MemoryCache struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{reports: make(map[string]Report)}
}

func (c *MemoryCache) Get(_ context.Context, attemptID string) (*Report, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reports[attemptID]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (c *MemoryCache) Set(_ context.Context, r *Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[r.AttemptID] = *r
	return nil
}

// RedisCache stores reports as JSON with a TTL.
type RedisCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisCache wraps c. A zero ttl keeps entries until evicted.
func NewRedisCache(c *cache.Cache, ttl time.Duration) *RedisCache {
	return &RedisCache{cache: c, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, attemptID string) (*Report, bool, error) {
	var r Report
	ok, err := c.cache.GetJSON(ctx, Key(attemptID), &r)
	if err != nil || !ok {
		return nil, false, err
	}
	return &r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, r *Report) error {
	return c.cache.SetJSON(ctx, Key(r.AttemptID), r, c.ttl)
}

// Key returns the cache key for an attempt's report.
func Key(attemptID string) string {
	return keyPrefix + attemptID
}
