package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func sampleDetails(appID string) *transport.GameDetails {
	return &transport.GameDetails{
		AppID:       appID,
		Name:        "Portal 2",
		Description: "Think with portals",
		Reviews:     "12,345 recommendations",
		Developer:   "Valve",
		Publisher:   "Valve",
		ReleaseDate: "18 Apr, 2011",
		Genres:      "Action, Adventure",
		Links:       transport.LinksFor(appID),
	}
}

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := m.Get(ctx, "620"); ok {
		t.Fatal("expected miss on empty cache")
	}

	m.Set(ctx, sampleDetails("620"))
	got, ok := m.Get(ctx, "620")
	if !ok || got.Name != "Portal 2" {
		t.Fatalf("expected hit, got %+v %v", got, ok)
	}

	got.Name = "mutated"
	again, _ := m.Get(ctx, "620")
	if again.Name != "Portal 2" {
		t.Fatal("cached entry must not be shared with callers")
	}
}

func TestMemoryExpires(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Set(context.Background(), sampleDetails("620"))
	now = now.Add(2 * time.Minute)

	if _, ok := m.Get(context.Background(), "620"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemorySweepsExpiredEntriesWhenFull(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < sweepThreshold; i++ {
		m.Set(context.Background(), sampleDetails(strconv.Itoa(i+1)))
	}
	now = now.Add(2 * time.Minute)
	m.Set(context.Background(), sampleDetails("620"))

	if m.Len() != 1 {
		t.Fatalf("expected expired entries to be swept, got %d", m.Len())
	}
}

func newRedisCache(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, ttl, logger.Discard()), mr
}

func TestRedisGetSet(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "620"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(ctx, sampleDetails("620"))
	if !mr.Exists("steam:details:620") {
		t.Fatal("expected namespaced key in redis")
	}

	got, ok := c.Get(ctx, "620")
	if !ok || got.Genres != "Action, Adventure" || got.Links.StorePage != "https://store.steampowered.com/app/620" {
		t.Fatalf("unexpected cached details %+v", got)
	}
}

func TestRedisEntriesExpire(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, sampleDetails("620"))
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, "620"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestRedisCorruptEntryIsMiss(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	if err := mr.Set("steam:details:620", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok := c.Get(context.Background(), "620"); ok {
		t.Fatal("expected corrupt entry to miss")
	}
}

func TestRedisUnavailableIsMiss(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	mr.Close()

	c.Set(context.Background(), sampleDetails("620"))
	if _, ok := c.Get(context.Background(), "620"); ok {
		t.Fatal("expected miss when redis is down")
	}
}
