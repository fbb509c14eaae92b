package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/solvurder/backend/internal/domain"
)

const sweepInterval = 10 * time.Minute

// imageEntry represents a single cached image with expiration
type imageEntry struct {
	image      *domain.SatelliteImage
	insertedAt time.Time
	expiresAt  time.Time
}

// MemoryCache is a thread-safe in-memory image cache with per-entry TTL
// and a bounded entry count. When the cap is exceeded the oldest entry
// is evicted, which keeps memory flat under crawler-like access
// patterns that touch many distinct coordinates.
type MemoryCache struct {
	data       map[string]imageEntry
	maxEntries int
	clock      clockwork.Clock
	mutex      sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache creates a new in-memory image cache using the wall clock.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return NewMemoryCacheWithClock(maxEntries, clockwork.NewRealClock())
}

// NewMemoryCacheWithClock creates a cache with an injected clock so tests
// can advance time deterministically.
func NewMemoryCacheWithClock(maxEntries int, clock clockwork.Clock) *MemoryCache {
	c := &MemoryCache{
		data:       make(map[string]imageEntry),
		maxEntries: maxEntries,
		clock:      clock,
	}

	// Expiry is lazy on Get; the sweeper only reclaims memory for
	// entries nobody asks for again.
	go c.sweepExpired()

	return c
}

// Get retrieves a cached image. Expired entries count as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.SatelliteImage, error) {
	c.mutex.RLock()
	entry, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists || c.clock.Now().After(entry.expiresAt) {
		c.misses.Add(1)
		return nil, domain.ErrCacheMiss
	}

	c.hits.Add(1)
	return entry.image, nil
}

// Set stores an image with the given TTL, overwriting any existing entry.
func (c *MemoryCache) Set(ctx context.Context, key string, img *domain.SatelliteImage, ttl time.Duration) error {
	now := c.clock.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = imageEntry{
		image:      img,
		insertedAt: now,
		expiresAt:  now.Add(ttl),
	}

	if len(c.data) > c.maxEntries {
		c.evictOldestLocked()
	}

	return nil
}

// Clear removes all cached images.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]imageEntry)
}

// Stats returns entry count and hit/miss counters.
func (c *MemoryCache) Stats() domain.CacheStats {
	c.mutex.RLock()
	entries := len(c.data)
	c.mutex.RUnlock()

	return domain.CacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// evictOldestLocked removes the entry with the earliest insertion time.
// Callers must hold the write lock.
func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true

	for key, entry := range c.data {
		if first || entry.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.insertedAt
			first = false
		}
	}

	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

// sweepExpired removes expired entries from the cache periodically
func (c *MemoryCache) sweepExpired() {
	ticker := c.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.Chan() {
		c.mutex.Lock()
		now := c.clock.Now()
		for key, entry := range c.data {
			if now.After(entry.expiresAt) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
