package api

import (
	"encoding/json"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a response stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// Clock returns the current time. Tests substitute a fake one.
type Clock func() time.Time

// CacheEntry is one memoised API response.
type CacheEntry struct {
	Key       string
	Data      json.RawMessage
	FetchedAt time.Time
}

// Cache memoises response bodies by endpoint for a fixed TTL. Stale entries
// are replaced on the next Set for the same key or dropped by Sweep.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     Clock
	entries map[string]CacheEntry
}

func NewCache(ttl time.Duration, now Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]CacheEntry),
	}
}

// Get returns the cached body for key if it is still fresh.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.fresh(entry) {
		return nil, false
	}
	return entry.Data, true
}

func (c *Cache) Set(key string, data json.RawMessage) {
	c.mu.Lock()
	c.entries[key] = CacheEntry{Key: key, Data: data, FetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]CacheEntry)
	c.mu.Unlock()
}

// Len counts entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes stale entries and reports how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if !c.fresh(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) fresh(entry CacheEntry) bool {
	return c.now().Sub(entry.FetchedAt) < c.ttl
}
