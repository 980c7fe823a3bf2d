package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"steam_search_backend/internal/events"
	"steam_search_backend/internal/steam/client"
	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/apperr"
	"steam_search_backend/platform/logger"
)

type fakeUpstream struct {
	searchCalls  atomic.Int32
	detailsCalls atomic.Int32
	search       func(term string) (*client.SearchPayload, error)
	details      func(appID string) (*client.AppData, error)
}

func (f *fakeUpstream) Search(ctx context.Context, term string) (*client.SearchPayload, error) {
	f.searchCalls.Add(1)
	return f.search(term)
}

func (f *fakeUpstream) AppDetails(ctx context.Context, appID string) (*client.AppData, error) {
	f.detailsCalls.Add(1)
	return f.details(appID)
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]transport.GameDetails
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]transport.GameDetails)}
}

func (c *mapCache) Get(_ context.Context, appID string) (*transport.GameDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[appID]
	return &d, ok
}

func (c *mapCache) Set(_ context.Context, d *transport.GameDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[d.AppID] = *d
}

func TestSearchShortQueryMakesNoCall(t *testing.T) {
	up := &fakeUpstream{}
	svc := New(up, logger.Discard())

	for _, q := range []string{"", "a", "é"} {
		items, err := svc.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("expected empty non-nil grid for %q, got %v", q, items)
		}
	}
	if up.searchCalls.Load() != 0 {
		t.Fatalf("expected no upstream calls, got %d", up.searchCalls.Load())
	}
}

func TestSearchMapsItemsAndPublishesEvent(t *testing.T) {
	up := &fakeUpstream{search: func(term string) (*client.SearchPayload, error) {
		return &client.SearchPayload{Items: []client.SearchItem{
			{ID: 70, Name: "Half-Life", Price: &client.SearchPrice{Final: 999}},
			{ID: 220, Name: "Half-Life 2"},
		}}, nil
	}}
	bus := events.NewInMemoryBus(logger.Discard())
	got := make(chan events.SearchCompleted, 1)
	bus.Subscribe(events.SearchCompleted{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		got <- e.(events.SearchCompleted)
		return nil
	}))

	svc := New(up, logger.Discard())
	svc.SetEventBus(bus)

	items, err := svc.Search(context.Background(), "half")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Price != "$9.99" || items[1].Price != "Free to Play" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].Image != "https://cdn.cloudflare.steamstatic.com/steam/apps/70/header.jpg" {
		t.Fatalf("unexpected image %q", items[0].Image)
	}

	bus.Wait()
	select {
	case e := <-got:
		if e.Query != "half" || len(e.AppIDs) != 2 || e.AppIDs[0] != "70" {
			t.Fatalf("unexpected event %+v", e)
		}
	default:
		t.Fatal("expected search completed event")
	}
}

func TestSearchPropagatesUpstreamError(t *testing.T) {
	up := &fakeUpstream{search: func(string) (*client.SearchPayload, error) {
		return nil, apperr.Upstream("boom", nil)
	}}
	svc := New(up, logger.Discard())

	if _, err := svc.Search(context.Background(), "portal"); !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestDetailsUsesCache(t *testing.T) {
	up := &fakeUpstream{details: func(appID string) (*client.AppData, error) {
		return &client.AppData{Name: "Portal"}, nil
	}}
	svc := New(up, logger.Discard())
	svc.SetCache(newMapCache())

	for i := 0; i < 3; i++ {
		d, err := svc.Details(context.Background(), "400")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.AppID != "400" || d.Name != "Portal" {
			t.Fatalf("unexpected details %+v", d)
		}
	}
	if up.detailsCalls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", up.detailsCalls.Load())
	}
}

func TestDetailsWithoutCacheFetchesEveryTime(t *testing.T) {
	up := &fakeUpstream{details: func(appID string) (*client.AppData, error) {
		return &client.AppData{}, nil
	}}
	svc := New(up, logger.Discard())

	for i := 0; i < 2; i++ {
		if _, err := svc.Details(context.Background(), "400"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if up.detailsCalls.Load() != 2 {
		t.Fatalf("expected two upstream calls, got %d", up.detailsCalls.Load())
	}
}

func TestDetailsCoalescesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	up := &fakeUpstream{details: func(appID string) (*client.AppData, error) {
		<-release
		return &client.AppData{Name: "Dota 2"}, nil
	}}
	svc := New(up, logger.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Details(context.Background(), "570"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if up.detailsCalls.Load() != 1 {
		t.Fatalf("expected one shared upstream call, got %d", up.detailsCalls.Load())
	}
}

func TestDetailsCallerCancellationReturnsPromptly(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	up := &fakeUpstream{details: func(appID string) (*client.AppData, error) {
		<-release
		return &client.AppData{}, nil
	}}
	svc := New(up, logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Details(ctx, "570")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDetailsNotFoundIsNotCached(t *testing.T) {
	up := &fakeUpstream{details: func(appID string) (*client.AppData, error) {
		return nil, apperr.NotFound("app details not available")
	}}
	cache := newMapCache()
	svc := New(up, logger.Discard())
	svc.SetCache(cache)

	if _, err := svc.Details(context.Background(), "1"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatal("failed lookups must not be cached")
	}
}

func TestPrefetchWithoutCacheIsNoop(t *testing.T) {
	up := &fakeUpstream{}
	svc := New(up, logger.Discard())

	if err := svc.Prefetch(context.Background(), "620"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.detailsCalls.Load() != 0 {
		t.Fatal("prefetch without cache should not call upstream")
	}
}

func TestPrefetchWarmsCache(t *testing.T) {
	up := &fakeUpstream{details: func(appID string) (*client.AppData, error) {
		return &client.AppData{Name: "Portal 2"}, nil
	}}
	cache := newMapCache()
	svc := New(up, logger.Discard())
	svc.SetCache(cache)

	if err := svc.Prefetch(context.Background(), "620"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Prefetch(context.Background(), "620"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.Get(context.Background(), "620"); !ok {
		t.Fatal("expected cache entry after prefetch")
	}
	if up.detailsCalls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", up.detailsCalls.Load())
	}
}

func TestSearchMinimumLengthCountsRunes(t *testing.T) {
	up := &fakeUpstream{search: func(term string) (*client.SearchPayload, error) {
		return &client.SearchPayload{Items: []client.SearchItem{}}, nil
	}}
	svc := New(up, logger.Discard())

	// One astral character is a single rune even though it spans two
	// UTF-16 code units.
	if _, err := svc.Search(context.Background(), "🎮"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.searchCalls.Load() != 0 {
		t.Fatalf("single emoji should not search, got %d calls", up.searchCalls.Load())
	}

	if _, err := svc.Search(context.Background(), "🎮🎮"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.searchCalls.Load() != 1 {
		t.Fatalf("two emoji should search once, got %d calls", up.searchCalls.Load())
	}
}
