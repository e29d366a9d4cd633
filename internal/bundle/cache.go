package bundle

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// CacheStats reports cache activity.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache memoizes resolved tags by exact source markup. At most one
// computation runs per key; concurrent callers share its result. Failed
// computations are not stored.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Entries: c.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Do returns the cached value for key, running fn to produce it when absent.
// Each caller waits on its own ctx; a caller giving up does not stop the
// shared computation or fail the other callers waiting on it.
func (c *Cache) Do(ctx context.Context, key string, fn func() (string, error)) (string, error) {
	if value, ok := c.Get(key); ok {
		c.hits.Add(1)
		return value, nil
	}
	ch := c.group.DoChan(key, func() (any, error) {
		if value, ok := c.Get(key); ok {
			c.hits.Add(1)
			return value, nil
		}
		c.misses.Add(1)
		value, err := fn()
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[key] = value
		c.mu.Unlock()
		return value, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
