// Package panel provides the launcher panel module: per-client search and
// detail sessions whose state is pushed over server-sent events.
package panel

import (
	"context"

	apphttp "steam_search_backend/internal/http"
	"steam_search_backend/internal/panel/handler"
	"steam_search_backend/internal/panel/service"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"
	"steam_search_backend/platform/validator"
)

// Module is the panel module.
type Module struct {
	registry *service.Registry
	handler  *handler.Handler
}

// NewModule creates the panel module on top of a store service.
func NewModule(cfg config.PanelConfig, svc service.StoreService, val *validator.Validator, log *logger.Logger) *Module {
	registry := service.NewRegistry(svc, cfg.GetPanelSessionIdleTTL(), log)

	log.Info("panel module initialized", "sessionIdleTtl", cfg.GetPanelSessionIdleTTL())

	return &Module{
		registry: registry,
		handler:  handler.New(registry, val),
	}
}

// Run expires idle sessions until ctx is done.
func (m *Module) Run(ctx context.Context) {
	m.registry.Run(ctx)
}

func (m *Module) Name() string {
	return "panel"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/panel"))
	ctx.Logger.Debug("routes registered", "prefix", "/api/v1/panel")
}

var _ apphttp.Module = (*Module)(nil)
