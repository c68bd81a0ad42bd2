package recurrence

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"time"
)

// cacheResult is a computed query result. Which field is meaningful depends
// on the operation the key was built for.
type cacheResult struct {
	times  []time.Time
	occurs bool
}

type cacheEntry struct {
	result     cacheResult
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache memoizes engine query results. Safe for concurrent use; a background
// goroutine evicts expired entries until Close is called.
type Cache struct {
	mu          sync.RWMutex
	entries     map[string]*cacheEntry
	ttl         time.Duration
	maxEntries  int
	now         func() time.Time
	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// CacheConfig holds configuration for the result cache.
type CacheConfig struct {
	TTL             time.Duration // how long entries stay valid
	MaxEntries      int           // eviction threshold
	CleanupInterval time.Duration // background cleanup period
}

// DefaultCacheConfig provides sensible defaults for result caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewCache creates a result cache with the given configuration. The clock is
// injectable so tests can drive expiry deterministically; pass nil for
// time.Now.
func NewCache(config CacheConfig, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	c := &Cache{
		entries:     make(map[string]*cacheEntry),
		ttl:         config.TTL,
		maxEntries:  config.MaxEntries,
		now:         now,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanupLoop(config.CleanupInterval)
	return c
}

// key builds a collision-resistant cache key over everything that influences
// a query result.
func (c *Cache) key(operation string, series Series, times ...time.Time) string {
	hasher := sha256.New()
	hasher.Write([]byte(operation))
	if series.Rule != nil {
		hasher.Write([]byte(series.Rule.String()))
	}
	writeTimes := func(ts []time.Time) {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(len(ts)))
		hasher.Write(buf[:])
		for _, t := range ts {
			hasher.Write([]byte(t.Format(time.RFC3339Nano)))
		}
	}
	writeTimes(series.RDates)
	writeTimes(series.ExDates)
	writeTimes(times)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (c *Cache) get(key string) (cacheResult, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()
	if !exists {
		return cacheResult{}, false
	}

	now := c.now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return cacheResult{}, false
	}

	c.mu.Lock()
	entry.accessedAt = now
	c.mu.Unlock()
	return entry.result, true
}

func (c *Cache) set(key string, result cacheResult) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		result:     result,
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		c.evict()
	}
}

// evict removes expired entries, then the least recently accessed entries
// until the cache fits. Caller holds the write lock.
func (c *Cache) evict() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type keyAccess struct {
		key        string
		accessedAt time.Time
	}
	byAge := make([]keyAccess, 0, len(c.entries))
	for key, entry := range c.entries {
		byAge = append(byAge, keyAccess{key, entry.accessedAt})
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].accessedAt.Before(byAge[j].accessedAt)
	})
	excess := len(c.entries) - c.maxEntries
	for i := 0; i < excess; i++ {
		delete(c.entries, byAge[i].key)
	}
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCacheConfig.CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.evict()
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and drops all entries. Closing an
// already closed cache is a no-op.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCleanup)
		c.mu.Lock()
		c.entries = make(map[string]*cacheEntry)
		c.mu.Unlock()
	})
}

// Stats reports cache occupancy.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	expired := 0
	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expired++
		}
	}
	return CacheStats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}

// CacheStats provides information about cache occupancy.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
