package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/solvurder/backend/internal/domain"
)

func testImage(source string) *domain.SatelliteImage {
	return &domain.SatelliteImage{
		Payload:     []byte("fake-image-bytes"),
		ContentType: "image/png",
		Source:      source,
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(10)
	ctx := context.Background()

	img := testImage("geonorge-wms")
	if err := cache.Set(ctx, "key-1", img, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Source != "geonorge-wms" || got.ContentType != "image/png" {
		t.Errorf("Get() = %+v, want stored image", got)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCacheWithClock(10, clock)
	ctx := context.Background()

	if err := cache.Set(ctx, "expiring", testImage("statkart-wms"), 2*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Still fresh just before the TTL.
	clock.Advance(119 * time.Second)
	if _, err := cache.Get(ctx, "expiring"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	// Expired after the TTL passes.
	clock.Advance(2 * time.Second)
	if _, err := cache.Get(ctx, "expiring"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after expiry error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	cache := NewMemoryCache(10)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", testImage("openstreetmap"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(ctx, "key", testImage("kartverket-wmts"), time.Minute); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Source != "kartverket-wmts" {
		t.Errorf("Get() source = %s, want kartverket-wmts", got.Source)
	}

	if stats := cache.Stats(); stats.Entries != 1 {
		t.Errorf("Stats().Entries = %d, want 1", stats.Entries)
	}
}

func TestMemoryCache_BoundedEviction(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCacheWithClock(3, clock)
	ctx := context.Background()

	// Insert four entries with distinct insertion times.
	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := cache.Set(ctx, key, testImage("geonorge-wms"), time.Hour); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
		clock.Advance(time.Second)
	}

	if stats := cache.Stats(); stats.Entries != 3 {
		t.Fatalf("Stats().Entries = %d, want 3", stats.Entries)
	}

	// The oldest entry was evicted, the newer three survive.
	if _, err := cache.Get(ctx, "key-0"); err != domain.ErrCacheMiss {
		t.Errorf("Get(key-0) error = %v, want %v", err, domain.ErrCacheMiss)
	}
	for i := 1; i < 4; i++ {
		if _, err := cache.Get(ctx, fmt.Sprintf("key-%d", i)); err != nil {
			t.Errorf("Get(key-%d) error = %v", i, err)
		}
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := cache.Set(ctx, key, testImage("geonorge-wms"), time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if stats := cache.Stats(); stats.Entries != 5 {
		t.Fatalf("Stats().Entries = %d, want 5 before clear", stats.Entries)
	}

	cache.Clear()

	if stats := cache.Stats(); stats.Entries != 0 {
		t.Errorf("Stats().Entries = %d, want 0 after clear", stats.Entries)
	}
	if _, err := cache.Get(ctx, "key-0"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after clear error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(10)
	ctx := context.Background()

	cache.Get(ctx, "missing")
	cache.Set(ctx, "present", testImage("geonorge-wms"), time.Minute)
	cache.Get(ctx, "present")
	cache.Get(ctx, "present")

	stats := cache.Stats()
	if stats.Entries != 1 {
		t.Errorf("Stats().Entries = %d, want 1", stats.Entries)
	}
	if stats.Hits != 2 {
		t.Errorf("Stats().Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", stats.Misses)
	}
}

func TestMemoryCache_SweepExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCacheWithClock(10, clock)
	ctx := context.Background()

	cache.Set(ctx, "short", testImage("geonorge-wms"), time.Minute)
	cache.Set(ctx, "long", testImage("geonorge-wms"), 24*time.Hour)

	// Let the sweeper goroutine reach its ticker before advancing.
	clock.BlockUntilContext(ctx, 1)
	clock.Advance(sweepInterval + time.Second)

	// The sweep runs asynchronously; poll entry count briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cache.Stats().Entries == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if entries := cache.Stats().Entries; entries != 1 {
		t.Errorf("Stats().Entries = %d, want 1 after sweep", entries)
	}
	if _, err := cache.Get(ctx, "long"); err != nil {
		t.Errorf("Get(long) error = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(100)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := fmt.Sprintf("key-%d", id)
			if err := cache.Set(ctx, key, testImage("geonorge-wms"), time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
