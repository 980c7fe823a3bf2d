package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"steam_search_backend/internal/scheduler"
	"steam_search_backend/internal/steam/cache"
	"steam_search_backend/internal/steam/client"
	"steam_search_backend/internal/steam/service"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"
	"steam_search_backend/platform/redisclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.IsDetailsCacheEnabled() {
		log.Warn("DETAILS_CACHE_TTL not set; prefetched details have nowhere to go")
		return
	}

	redisClient, err := redisclient.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	if redisClient == nil {
		log.Warn("REDIS_URL not configured; scheduler disabled")
		return
	}
	defer func() { _ = redisClient.Close() }()

	// The worker shares the API's redis cache; it publishes no events.
	svc := service.New(client.New(cfg, log), log)
	svc.SetCache(cache.NewRedis(redisClient, cfg.GetDetailsCacheTTL(), log))

	worker, err := scheduler.NewWorker(cfg, svc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler stopped")
}
