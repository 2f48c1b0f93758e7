package memory

import (
	"sync"
	"time"
)

// Cache is an in-memory TTL set. The actor uses it to remember result UIDs
// across pages of one run so duplicates are not pushed twice.
type Cache struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func New() *Cache {
	return &Cache{items: make(map[string]time.Time)}
}

// Seen marks key and reports whether it was already present and unexpired.
func (c *Cache) Seen(key string, ttl time.Duration) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	expires, ok := c.items[key]
	c.items[key] = now.Add(ttl)
	return ok && now.Before(expires)
}

func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires, ok := c.items[key]
	return ok && time.Now().Before(expires)
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	n := 0
	for _, expires := range c.items {
		if now.Before(expires) {
			n++
		}
	}
	return n
}

// Prune drops expired entries. The page loop calls it between pages; runs
// are short-lived so there is no background sweeper.
func (c *Cache) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, expires := range c.items {
		if !now.Before(expires) {
			delete(c.items, k)
		}
	}
}
