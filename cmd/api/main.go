package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"steam_search_backend/internal/events"
	apphttp "steam_search_backend/internal/http"
	"steam_search_backend/internal/http/router"
	"steam_search_backend/internal/panel"
	"steam_search_backend/internal/scheduler"
	"steam_search_backend/internal/steam"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"
	"steam_search_backend/platform/redisclient"
	"steam_search_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.GetHTTPAddr())

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	redisClient, err := redisclient.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	steamModule := steam.NewModule(cfg, redisClient, eventBus, val, log)
	panelModule := panel.NewModule(cfg, steamModule.Service(), val, log)

	if closePrefetch := initPrefetch(cfg, eventBus, log); closePrefetch != nil {
		defer closePrefetch()
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: healthChecker(redisClient),
		Modules: []apphttp.Module{
			steamModule,
			panelModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.GetHTTPAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		panelModule.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}

	eventBus.Wait()
	log.Info("server stopped")
}

type prefetchConfig interface {
	config.PrefetchConfig
	config.SchedulerConfig
}

// initPrefetch subscribes the asynq prefetch producer to search events when
// prefetching is enabled.
func initPrefetch(cfg prefetchConfig, bus events.Bus, log *logger.Logger) func() {
	if !cfg.IsPrefetchEnabled() {
		log.Info("details prefetch disabled")
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize prefetch client", "error", err)
		return nil
	}

	scheduler.NewPrefetchSubscriber(client, cfg.GetPrefetchLimit(), log).RegisterHandlers(bus)
	log.Info("details prefetch enabled", "limit", cfg.GetPrefetchLimit(), "queue", cfg.GetAsynqQueueName())

	return func() {
		_ = client.Close()
	}
}

func healthChecker(client *redis.Client) apphttp.HealthChecker {
	if client == nil {
		return nil
	}
	return redisclient.NewHealthAdapter(client)
}
