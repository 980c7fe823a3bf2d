package service

import (
	"context"
	"sync"
	"unicode/utf8"

	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/logger"
)

// Outcome reports what a flow run did to the visible state.
type Outcome int

const (
	// OutcomeApplied means the response was written to the store.
	OutcomeApplied Outcome = iota
	// OutcomeCleared means the state was reset without a network call.
	OutcomeCleared
	// OutcomeStale means a newer request superseded this one.
	OutcomeStale
	// OutcomeFailed means the request failed and prior state was kept.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeCleared:
		return "cleared"
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Searcher runs store searches.
type Searcher interface {
	Search(ctx context.Context, query string) ([]transport.SearchResultItem, error)
}

// SearchFlow turns query changes into grid updates. Only the response to the
// latest query is applied; older in-flight requests are cancelled.
type SearchFlow struct {
	svc   Searcher
	store *Store
	log   *logger.Logger

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
}

// NewSearchFlow creates a search flow writing to store.
func NewSearchFlow(svc Searcher, store *Store, log *logger.Logger) *SearchFlow {
	return &SearchFlow{svc: svc, store: store, log: log}
}

// Update runs a search for query and blocks until it resolves. Failures are
// logged and leave the grid unchanged.
func (f *SearchFlow) Update(ctx context.Context, query string) Outcome {
	return f.Start(ctx, query)()
}

// Start supersedes any earlier search and records query in the store before
// returning. The returned func performs the fetch; it may run on another
// goroutine and only applies its result if no later Start or Stop happened.
func (f *SearchFlow) Start(ctx context.Context, query string) func() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token++
	token := f.token
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	if utf8.RuneCountInString(query) < transport.MinQueryLength {
		f.store.Update(func(s *Snapshot) {
			s.Query = query
			s.Items = []transport.SearchResultItem{}
			s.SearchLoading = false
			s.LastError = ""
		})
		return func() Outcome { return OutcomeCleared }
	}

	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.store.Update(func(s *Snapshot) {
		s.Query = query
		s.SearchLoading = true
	})

	return func() Outcome {
		defer cancel()
		items, err := f.svc.Search(reqCtx, query)
		return f.apply(ctx, token, query, items, err)
	}
}

func (f *SearchFlow) apply(ctx context.Context, token uint64, query string, items []transport.SearchResultItem, err error) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	if token != f.token {
		f.log.WithContext(ctx).Debug("discarding stale search response", "query", query)
		return OutcomeStale
	}
	f.cancel = nil

	if err != nil {
		f.log.WithContext(ctx).Warn("search failed", "query", query, "error", err)
		f.store.Update(func(s *Snapshot) {
			s.SearchLoading = false
			s.LastError = err.Error()
		})
		return OutcomeFailed
	}

	f.store.Update(func(s *Snapshot) {
		s.Items = items
		s.SearchLoading = false
		s.LastError = ""
	})
	return OutcomeApplied
}

// Stop cancels any in-flight search.
func (f *SearchFlow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
