package service

import (
	"context"
	"sync"

	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/apperr"
	"steam_search_backend/platform/logger"
)

// DetailsFetcher loads details for one app.
type DetailsFetcher interface {
	Details(ctx context.Context, appID string) (*transport.GameDetails, error)
}

// Target identifies the app a detail view is opened for. Name and Price are
// carried over from the grid tile.
type Target struct {
	AppID string `json:"appId" validate:"required,appid"`
	Name  string `json:"name" validate:"max=300"`
	Price string `json:"price" validate:"max=64"`
}

// DetailFlow loads details for the open detail view. Opening another app or
// closing the view supersedes the pending request.
type DetailFlow struct {
	svc   DetailsFetcher
	store *Store
	log   *logger.Logger

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
}

// NewDetailFlow creates a detail flow writing to store.
func NewDetailFlow(svc DetailsFetcher, store *Store, log *logger.Logger) *DetailFlow {
	return &DetailFlow{svc: svc, store: store, log: log}
}

// Open shows the detail view for target and blocks until its details
// resolve. When the store has no data the view keeps its placeholders.
func (f *DetailFlow) Open(ctx context.Context, target Target) Outcome {
	return f.Start(ctx, target)()
}

// Start supersedes any pending load and shows the view for target in its
// loading state before returning. The returned func fetches the details and
// applies them unless a later Start or Close happened first.
func (f *DetailFlow) Start(ctx context.Context, target Target) func() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token++
	token := f.token
	if f.cancel != nil {
		f.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.store.Update(func(s *Snapshot) {
		s.Detail = &DetailView{
			AppID:   target.AppID,
			Name:    target.Name,
			Image:   transport.HeaderImageURL(target.AppID),
			Price:   target.Price,
			Loading: true,
		}
	})

	return func() Outcome {
		defer cancel()
		details, err := f.svc.Details(reqCtx, target.AppID)
		return f.apply(ctx, token, target.AppID, details, err)
	}
}

func (f *DetailFlow) apply(ctx context.Context, token uint64, appID string, details *transport.GameDetails, err error) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	if token != f.token {
		f.log.WithContext(ctx).Debug("discarding stale details response", "appId", appID)
		return OutcomeStale
	}
	f.cancel = nil

	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			f.log.WithContext(ctx).Info("details not available", "appId", appID)
		} else {
			f.log.WithContext(ctx).Warn("details fetch failed", "appId", appID, "error", err)
		}
		f.store.Update(func(s *Snapshot) {
			s.Detail = withDetails(s.Detail, nil)
			s.LastError = err.Error()
		})
		return OutcomeFailed
	}

	f.store.Update(func(s *Snapshot) {
		s.Detail = withDetails(s.Detail, details)
		s.LastError = ""
	})
	return OutcomeApplied
}

// Close dismisses the detail view and cancels its pending request.
func (f *DetailFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.store.Update(func(s *Snapshot) {
		s.Detail = nil
	})
}

// withDetails returns a copy of view with loading finished.
func withDetails(view *DetailView, details *transport.GameDetails) *DetailView {
	if view == nil {
		return nil
	}
	next := *view
	next.Loading = false
	next.Details = details
	if next.Name == "" && details != nil {
		next.Name = details.Name
	}
	return &next
}
