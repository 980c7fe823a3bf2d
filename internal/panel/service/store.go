package service

import (
	"sync"

	"steam_search_backend/internal/steam/transport"
)

// DetailView is the state of an open detail view. Details stays nil while
// loading and when the store reported no data for the app.
type DetailView struct {
	AppID   string                 `json:"appId"`
	Name    string                 `json:"name"`
	Image   string                 `json:"image"`
	Price   string                 `json:"price,omitempty"`
	Loading bool                   `json:"loading"`
	Details *transport.GameDetails `json:"details,omitempty"`
}

// Snapshot is an immutable view of a panel. Slices and pointers inside a
// published snapshot are never mutated afterwards.
type Snapshot struct {
	Version       uint64                       `json:"version"`
	Query         string                       `json:"query"`
	Items         []transport.SearchResultItem `json:"items"`
	SearchLoading bool                         `json:"searchLoading"`
	Detail        *DetailView                  `json:"detail,omitempty"`
	LastError     string                       `json:"lastError,omitempty"`
}

// Store is the reactive state container the flows write to. Subscribers
// always observe the latest snapshot; intermediate ones may be skipped.
type Store struct {
	mu      sync.Mutex
	snap    Snapshot
	subs    map[int]chan Snapshot
	nextSub int
}

// NewStore creates a store with an empty grid.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{Items: []transport.SearchResultItem{}},
		subs: make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Update applies fn to a copy of the state, bumps the version and notifies
// subscribers.
func (s *Store) Update(fn func(*Snapshot)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap
	fn(&next)
	next.Version = s.snap.Version + 1
	s.snap = next

	for _, ch := range s.subs {
		offerLatest(ch, next)
	}
	return next
}

// Subscribe returns a channel that receives the current snapshot immediately
// and every later one. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- s.snap
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// offerLatest replaces a pending unread snapshot with snap. Callers hold mu,
// so no other sender races on ch.
func offerLatest(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}
