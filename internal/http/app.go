// Package http wires domain modules onto the shared gin engine.
package http

import (
	"context"

	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"
)

// HealthChecker backs /api/ready.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is everything the router needs, assembled by cmd/api.
type App struct {
	Config config.HTTPConfig
	Logger *logger.Logger
	// Health is nil when nothing external needs to be up (no redis).
	Health  HealthChecker
	Modules []Module
}
