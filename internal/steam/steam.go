// Package steam provides the Steam store bounded context.
// This file defines the public interfaces exposed to other domains.
package steam

import (
	"context"

	"steam_search_backend/internal/steam/transport"
)

// StoreService defines the public interface for store lookups.
// Other domains should depend on this interface, not the concrete implementation.
type StoreService interface {
	// Search returns the result grid for query. Queries shorter than
	// transport.MinQueryLength yield an empty grid without a network call.
	Search(ctx context.Context, query string) ([]transport.SearchResultItem, error)

	// Details returns sanitized details for an app.
	// Returns an apperr.KindNotFound error when the store reports no data.
	Details(ctx context.Context, appID string) (*transport.GameDetails, error)

	// Prefetch warms the details cache. It is a no-op when caching is off.
	Prefetch(ctx context.Context, appID string) error
}
