// Package cache provides details caches for the Steam service.
package cache

import (
	"context"
	"sync"
	"time"

	"steam_search_backend/internal/steam/transport"
)

// sweepThreshold is the size at which Set first drops expired entries.
const sweepThreshold = 1024

// cacheEntry holds cached details with expiration.
type cacheEntry struct {
	details   transport.GameDetails
	expiresAt time.Time
}

// Memory is a process-local TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-memory cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the cached details when present and fresh.
func (m *Memory) Get(_ context.Context, appID string) (*transport.GameDetails, bool) {
	m.mu.RLock()
	entry, ok := m.entries[appID]
	m.mu.RUnlock()

	if !ok || m.now().After(entry.expiresAt) {
		return nil, false
	}
	details := entry.details
	return &details, true
}

// Set stores details until the TTL passes.
func (m *Memory) Set(_ context.Context, details *transport.GameDetails) {
	if details == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= sweepThreshold {
		m.sweepLocked()
	}
	m.entries[details.AppID] = cacheEntry{
		details:   *details,
		expiresAt: m.now().Add(m.ttl),
	}
}

// sweepLocked drops expired entries. Callers hold mu.
func (m *Memory) sweepLocked() {
	now := m.now()
	for id, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
