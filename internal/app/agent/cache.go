package agent

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// EntityCache is a TTL cache over refreshed entity snapshots with an explicit
// observer list for invalidation, replacing the module-level mutable cache of
// the original app so lifetime and test-reset are explicit.
type EntityCache struct {
	store *gocache.Cache
	ttl   time.Duration

	mu        sync.RWMutex
	observers []func(key string)
}

func NewEntityCache(ttl time.Duration) *EntityCache {
	return &EntityCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *EntityCache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *EntityCache) Set(key string, value any) {
	c.store.Set(key, value, c.ttl)
}

// Invalidate drops one key and notifies every observer.
func (c *EntityCache) Invalidate(key string) {
	c.store.Delete(key)
	c.mu.RLock()
	observers := c.observers
	c.mu.RUnlock()
	for _, fn := range observers {
		fn(key)
	}
}

// Subscribe registers an invalidation observer and returns an unsubscribe
// function.
func (c *EntityCache) Subscribe(fn func(key string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
	idx := len(c.observers) - 1
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.observers[idx] = func(string) {}
	}
}

// Reset empties the cache without notifying observers; for tests and
// destructive resets.
func (c *EntityCache) Reset() {
	c.store.Flush()
}
