package steam

import (
	"steam_search_backend/internal/events"
	apphttp "steam_search_backend/internal/http"
	"steam_search_backend/internal/steam/cache"
	"steam_search_backend/internal/steam/client"
	"steam_search_backend/internal/steam/handler"
	"steam_search_backend/internal/steam/service"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"
	"steam_search_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// ModuleConfig combines the config interfaces the store module reads.
type ModuleConfig interface {
	config.SteamConfig
	config.CacheConfig
}

// Module is the Steam store bounded context module.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates and initializes the store module. redisClient may be nil,
// in which case an enabled details cache is kept in process memory.
func NewModule(cfg ModuleConfig, redisClient *redis.Client, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	apiClient := client.New(cfg, log)
	svc := service.New(apiClient, log)

	if bus != nil {
		svc.SetEventBus(bus)
	}

	switch {
	case !cfg.IsDetailsCacheEnabled():
		log.Info("steam details cache disabled")
	case redisClient != nil:
		svc.SetCache(cache.NewRedis(redisClient, cfg.GetDetailsCacheTTL(), log))
		log.Info("steam details cache enabled", "backend", "redis", "ttl", cfg.GetDetailsCacheTTL())
	default:
		svc.SetCache(cache.NewMemory(cfg.GetDetailsCacheTTL()))
		log.Info("steam details cache enabled", "backend", "memory", "ttl", cfg.GetDetailsCacheTTL())
	}

	log.Info("steam module initialized", "baseUrl", cfg.GetSteamStoreBaseURL())

	return &Module{
		service: svc,
		handler: handler.New(svc, val),
	}
}

// Service returns the store service for other modules.
func (m *Module) Service() StoreService {
	return m.service
}

func (m *Module) Name() string {
	return "steam"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/steam"))
	ctx.Logger.Debug("routes registered", "prefix", "/api/v1/steam")
}

var (
	_ apphttp.Module = (*Module)(nil)
	_ StoreService   = (*service.Service)(nil)
)
