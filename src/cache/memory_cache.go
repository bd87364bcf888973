package cache

import (
	"context"
	"sync"
	"time"

	"github.com/govscout/govscout/src/models"
)

type entry struct {
	result   *models.SearchResult
	storedAt time.Time
}

// MemoryCache is a process-local TTL cache used when no Redis address is
// configured. Expiry on Get is authoritative; the background sweep only
// reclaims memory. The sweeper is owned by the cache and stops on Close.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	done    chan struct{}
}

func NewMemoryCache(ttl, sweepInterval time.Duration) *MemoryCache {
	c := newMemoryCache(ttl, time.Now)
	c.done = make(chan struct{})
	go c.sweep(sweepInterval)
	return c
}

// newMemoryCache builds a cache without a sweeper, with an injectable clock.
func newMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
		stop:    make(chan struct{}),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, nil
	}
	return e.result, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, result *models.SearchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{result: result, storedAt: c.now()}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Close() error {
	close(c.stop)
	if c.done != nil {
		<-c.done
	}
	return nil
}

func (c *MemoryCache) sweep(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}
