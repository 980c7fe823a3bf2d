// Package service runs the search and detail flows of a launcher panel and
// keeps their visible state in a reactive store.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/apperr"
	"steam_search_backend/platform/logger"

	"github.com/google/uuid"
)

// StoreService is the store lookup surface both flows run against.
type StoreService interface {
	Searcher
	DetailsFetcher
}

// Session is one panel: a store plus the flows writing to it. Flow runs are
// bound to the session lifetime, not to the request that triggered them.
type Session struct {
	ID     string
	Store  *Store
	Search *SearchFlow
	Detail *DetailFlow

	ctx      context.Context
	cancel   context.CancelFunc
	spawnMu  sync.Mutex
	wg       sync.WaitGroup
	lastSeen atomic.Int64
}

// NewSession creates a session whose flows run until parent is done or the
// session is closed.
func NewSession(parent context.Context, svc StoreService, log *logger.Logger) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.WithValue(parent, logger.SessionIDKey, id))
	store := NewStore()

	s := &Session{
		ID:     id,
		Store:  store,
		Search: NewSearchFlow(svc, store, log),
		Detail: NewDetailFlow(svc, store, log),
		ctx:    ctx,
		cancel: cancel,
	}
	s.Touch()
	return s
}

// Context returns the session context.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Touch marks the session as in use.
func (s *Session) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// SetQuery supersedes earlier searches before returning and fetches in the
// background, so calls win in the order they were made.
func (s *Session) SetQuery(query string) error {
	return s.spawn(func(ctx context.Context) func() Outcome {
		return s.Search.Start(ctx, query)
	})
}

// OpenDetail shows the loading view before returning and fetches the details
// in the background. A later OpenDetail or CloseDetail supersedes it.
func (s *Session) OpenDetail(target Target) error {
	return s.spawn(func(ctx context.Context) func() Outcome {
		return s.Detail.Start(ctx, target)
	})
}

// CloseDetail dismisses the detail view.
func (s *Session) CloseDetail() {
	s.Touch()
	s.Detail.Close()
}

// Close cancels in-flight work and waits for it to finish.
func (s *Session) Close() {
	s.spawnMu.Lock()
	s.cancel()
	s.spawnMu.Unlock()

	s.Search.Stop()
	s.wg.Wait()
}

// spawn runs start synchronously and the fetch it returns on a goroutine
// tracked by Close.
func (s *Session) spawn(start func(ctx context.Context) func() Outcome) error {
	s.spawnMu.Lock()
	defer s.spawnMu.Unlock()

	if s.ctx.Err() != nil {
		return apperr.NotFound("session closed")
	}
	s.Touch()
	run := start(s.ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		run()
	}()
	return nil
}

// Registry owns the live sessions and expires idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	svc      StoreService
	log      *logger.Logger
	idleTTL  time.Duration
	baseCtx  context.Context
	now      func() time.Time
}

// NewRegistry creates an empty registry. Sessions unused for idleTTL are
// closed by Run.
func NewRegistry(svc StoreService, idleTTL time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		svc:      svc,
		log:      log,
		idleTTL:  idleTTL,
		baseCtx:  context.Background(),
		now:      time.Now,
	}
}

// Create opens a new session.
func (r *Registry) Create() *Session {
	s := NewSession(r.baseCtx, r.svc, r.log)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.log.Debug("panel session created", "sessionId", s.ID)
	return s
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	return s, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return apperr.NotFound("session not found")
	}
	s.Close()
	r.log.Debug("panel session deleted", "sessionId", id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run expires idle sessions until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			if n := r.ExpireIdle(); n > 0 {
				r.log.Info("expired idle panel sessions", "count", n)
			}
		}
	}
}

// ExpireIdle closes sessions unused for longer than the idle TTL.
func (r *Registry) ExpireIdle() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// View is the JSON shape of a session returned by the API.
type View struct {
	ID       string          `json:"id"`
	State    Snapshot        `json:"state"`
	Metadata []MetadataEntry `json:"metadata,omitempty"`
	Actions  []Action        `json:"actions,omitempty"`
}

// ViewOf builds the API view of a snapshot.
func ViewOf(id string, snap Snapshot) View {
	v := View{ID: id, State: snap}
	if snap.Detail != nil {
		v.Metadata = Metadata(snap.Detail)
		v.Actions = Actions(snap.Detail.AppID)
	}
	if v.State.Items == nil {
		v.State.Items = []transport.SearchResultItem{}
	}
	return v
}
