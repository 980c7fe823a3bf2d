package scheduler

import (
	"context"
	"errors"

	"steam_search_backend/internal/events"
	"steam_search_backend/platform/logger"
)

// PrefetchSubscriber queues detail prefetches for the top hits of every
// completed search, so opening one of them is served from cache.
type PrefetchSubscriber struct {
	prefetcher DetailsPrefetcher
	limit      int
	log        *logger.Logger
}

func NewPrefetchSubscriber(prefetcher DetailsPrefetcher, limit int, log *logger.Logger) *PrefetchSubscriber {
	return &PrefetchSubscriber{prefetcher: prefetcher, limit: limit, log: log}
}

// RegisterHandlers subscribes to search events on bus.
func (p *PrefetchSubscriber) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SearchCompleted{}.EventName(), p)
}

func (p *PrefetchSubscriber) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.SearchCompleted)
	if !ok {
		return nil
	}

	ids := e.AppIDs
	if p.limit >= 0 && len(ids) > p.limit {
		ids = ids[:p.limit]
	}

	var errs []error
	for _, id := range ids {
		if err := p.prefetcher.EnqueueDetailsPrefetch(ctx, PrefetchDetailsPayload{AppID: id, Query: e.Query}); err != nil {
			errs = append(errs, err)
		}
	}
	if len(ids) > 0 {
		p.log.Debug("queued details prefetch", "query", e.Query, "count", len(ids)-len(errs))
	}
	return errors.Join(errs...)
}

var _ events.Handler = (*PrefetchSubscriber)(nil)
