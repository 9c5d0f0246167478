package application

import (
	"testing"
	"time"
)

func TestHighlightCache_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.August, 1, 9, 0, 0, 0, time.UTC)
	cache := newHighlightCache(time.Minute, 0, func() time.Time { return now })
	days := []time.Time{time.Date(2024, time.August, 7, 0, 0, 0, 0, time.UTC)}

	key := highlightCacheKey("sanctuary", days[0], days[0].AddDate(0, 0, 7))
	if key != "sanctuary|2024-08-07|2024-08-14" {
		t.Fatalf("unexpected cache key %q", key)
	}

	cache.Store(key, days)
	days[0] = time.Time{}

	got, ok := cache.Get(key)
	if !ok || len(got) != 1 || got[0].Day() != 7 {
		t.Fatalf("expected cached copy, got %v (ok=%v)", got, ok)
	}
	got[0] = time.Time{}
	if again, _ := cache.Get(key); again[0].IsZero() {
		t.Fatalf("expected Get to return a copy")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get(key); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestHighlightCache_InvalidateAndCapacity(t *testing.T) {
	t.Parallel()

	cache := newHighlightCache(time.Hour, 2, nil)
	cache.Store("a", nil)
	cache.Store("b", nil)
	cache.Store("c", nil)

	cache.mu.RLock()
	size := len(cache.entries)
	cache.mu.RUnlock()
	if size != 2 {
		t.Fatalf("expected capacity to be enforced, got %d entries", size)
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("expected most recent entry to be kept")
	}

	cache.Invalidate()
	if _, ok := cache.Get("c"); ok {
		t.Fatalf("expected invalidation to clear entries")
	}

	var nilCache *highlightCache
	nilCache.Store("a", nil)
	nilCache.Invalidate()
	if _, ok := nilCache.Get("a"); ok {
		t.Fatalf("expected nil cache to miss")
	}
}
