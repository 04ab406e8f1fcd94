package gst

import (
	"sync"
	"time"
)

type cacheEntry struct {
	result   Result
	storedAt time.Time
}

// Cache holds verification results keyed by normalized GSTIN. Failures are
// cached alongside successes so a known-bad input never triggers repeated
// upstream calls within the TTL. Expired entries are dropped lazily on read
// and in bulk by Sweep.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates a result cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for a GSTIN, evicting it if expired.
func (c *Cache) Get(gstin string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[gstin]
	if !ok {
		return Result{}, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, gstin)
		return Result{}, false
	}
	return e.result, true
}

// Put stores a verification result.
func (c *Cache) Put(gstin string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[gstin] = cacheEntry{result: r, storedAt: c.now()}
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
