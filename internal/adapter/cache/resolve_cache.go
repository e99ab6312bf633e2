// Package cache provides the TTL cache that fronts entity resolution.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// ResolveCache memoizes name → cnpj_basico resolutions. Entries expire by
// TTL, are evicted LRU when the cache fills, and are dropped wholesale
// when the lexical index generation changes.
type ResolveCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	cnpj      string
	timestamp time.Time
	indexGen  uint64
}

// NewResolveCache creates a cache of at most maxSize resolutions with the
// given TTL.
func NewResolveCache(maxSize int, ttl time.Duration) *ResolveCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResolveCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(name string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
	return hex.EncodeToString(hash[:16])
}

// Get returns the cached resolution for name, if fresh.
func (c *ResolveCache) Get(name string) (string, bool) {
	c.mu.RLock()
	key := cacheKey(name)
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		return "", false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return "", false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return entry.cnpj, true
}

// Put records a resolution.
func (c *ResolveCache) Put(name, cnpj string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(name)

	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{cnpj: cnpj, timestamp: time.Now(), indexGen: c.indexGen}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{cnpj: cnpj, timestamp: time.Now(), indexGen: c.indexGen}
	c.order = append(c.order, key)
}

// Invalidate drops all entries and bumps the index generation. Called
// after a lexical index rebuild.
func (c *ResolveCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

// Size returns the number of cached resolutions.
func (c *ResolveCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResolveCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ResolveCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ResolveCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
