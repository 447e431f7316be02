package client

import (
	"sync"
	"time"
)

// Cache stores raw response bodies keyed by endpoint + params. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the default in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
