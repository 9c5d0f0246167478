package application

import (
	"sync"
	"time"
)

// highlightCache stores recently projected calendar highlights so repeated
// calendar views skip the multi-month projection while bookings remain
// unchanged. Every store mutation invalidates it.
type highlightCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]highlightCacheEntry
}

type highlightCacheEntry struct {
	days      []time.Time
	expiresAt time.Time
}

func newHighlightCache(ttl time.Duration, maxEntries int, now func() time.Time) *highlightCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &highlightCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]highlightCacheEntry),
	}
}

func (c *highlightCache) Get(key string) ([]time.Time, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneDays(entry.days), true
}

func (c *highlightCache) Store(key string, days []time.Time) {
	if c == nil {
		return
	}
	cloned := cloneDays(days)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = highlightCacheEntry{days: cloned, expiresAt: expiry}
}

func (c *highlightCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]highlightCacheEntry)
	c.mu.Unlock()
}

func (c *highlightCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *highlightCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneDays(days []time.Time) []time.Time {
	if len(days) == 0 {
		return nil
	}
	out := make([]time.Time, len(days))
	copy(out, days)
	return out
}

func highlightCacheKey(roomID string, from, to time.Time) string {
	return roomID + "|" + from.Format(time.DateOnly) + "|" + to.Format(time.DateOnly)
}
