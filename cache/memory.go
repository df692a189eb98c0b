package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time // zero when the cache has no TTL
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// InMemoryCache is a process-local Backend. Translators in the same process
// may share one instance; it is safe for concurrent use.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewInMemoryCache creates an in-memory cache whose entries live for
// ttlSeconds. Zero or negative means entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (c *InMemoryCache) entry(value string, now time.Time) memoryEntry {
	e := memoryEntry{value: value}
	if c.ttl > 0 {
		e.expires = now.Add(c.ttl)
	}
	return e
}

// Get returns the value for key. Expired entries are dropped and reported
// as misses.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && cur.expired(time.Now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores value under key.
func (c *InMemoryCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = c.entry(value, time.Now())
	return nil
}

// SetMany stores all values under a single lock, overwriting existing keys.
func (c *InMemoryCache) SetMany(values map[string]string) error {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range values {
		c.entries[key] = c.entry(value, now)
	}
	return nil
}

// Delete evicts a single key.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes every entry.
func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

// Entries returns a copy of all live entries.
func (c *InMemoryCache) Entries() map[string]string {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for key, e := range c.entries {
		if !e.expired(now) {
			out[key] = e.value
		}
	}
	return out
}
