// Package service provides business logic for Steam store lookups.
package service

import (
	"context"
	"unicode/utf8"

	"steam_search_backend/internal/events"
	"steam_search_backend/internal/steam/client"
	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Upstream is the subset of the store client the service needs.
type Upstream interface {
	Search(ctx context.Context, term string) (*client.SearchPayload, error)
	AppDetails(ctx context.Context, appID string) (*client.AppData, error)
}

// DetailsCache stores sanitized details by app id.
type DetailsCache interface {
	Get(ctx context.Context, appID string) (*transport.GameDetails, bool)
	Set(ctx context.Context, details *transport.GameDetails)
}

// Service handles store searches and detail lookups.
type Service struct {
	upstream Upstream
	log      *logger.Logger
	cache    DetailsCache
	eventBus events.Bus
	inflight singleflight.Group
}

// New creates a new Steam service. Caching and events are off until
// SetCache / SetEventBus are called.
func New(upstream Upstream, log *logger.Logger) *Service {
	return &Service{
		upstream: upstream,
		log:      log,
	}
}

// SetCache enables the details cache.
func (s *Service) SetCache(cache DetailsCache) {
	s.cache = cache
}

// SetEventBus enables domain events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// Search returns the grid for query. Queries shorter than
// transport.MinQueryLength return an empty grid without calling upstream.
func (s *Service) Search(ctx context.Context, query string) ([]transport.SearchResultItem, error) {
	if utf8.RuneCountInString(query) < transport.MinQueryLength {
		return []transport.SearchResultItem{}, nil
	}

	payload, err := s.upstream.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	items := make([]transport.SearchResultItem, 0, len(payload.Items))
	ids := make([]string, 0, len(payload.Items))
	for _, raw := range payload.Items {
		item := ToSearchResultItem(raw)
		items = append(items, item)
		ids = append(ids, item.ID)
	}

	s.log.WithContext(ctx).Debug("steam search completed", "query", query, "results", len(items))
	s.publish(ctx, events.SearchCompleted{
		BaseEvent: events.NewBaseEvent(),
		Query:     query,
		AppIDs:    ids,
	})

	return items, nil
}

// Details returns sanitized details for appID. Concurrent lookups of the same
// id share one upstream request.
func (s *Service) Details(ctx context.Context, appID string) (*transport.GameDetails, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, appID); ok {
			return cached, nil
		}
	}

	// The shared fetch outlives any single caller; callers stop waiting on
	// their own ctx.
	ch := s.inflight.DoChan(appID, func() (interface{}, error) {
		return s.fetchDetails(context.WithoutCancel(ctx), appID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*transport.GameDetails), nil
	}
}

// Prefetch warms the details cache for appID.
func (s *Service) Prefetch(ctx context.Context, appID string) error {
	if s.cache == nil {
		return nil
	}
	if _, ok := s.cache.Get(ctx, appID); ok {
		return nil
	}
	_, err := s.Details(ctx, appID)
	return err
}

func (s *Service) fetchDetails(ctx context.Context, appID string) (*transport.GameDetails, error) {
	data, err := s.upstream.AppDetails(ctx, appID)
	if err != nil {
		return nil, err
	}

	details := ToGameDetails(appID, data)
	if s.cache != nil {
		s.cache.Set(ctx, details)
	}

	s.publish(ctx, events.DetailsFetched{
		BaseEvent: events.NewBaseEvent(),
		AppID:     appID,
	})

	return details, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

