package router

import (
	"context"
	"net/http"
	"time"

	apphttp "steam_search_backend/internal/http"
	"steam_search_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// New builds the gin engine with shared middleware and every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.CORS(app.Config))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				app.Logger.Warn("readiness check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := engine.Group("/api/v1")
	if limiter := httpkit.NewPerMinuteRateLimiter(app.Config.GetAPIRatePerMinute(), app.Logger); limiter != nil {
		v1.Use(limiter.RateLimit())
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(&apphttp.RouterContext{
			V1:     v1,
			Logger: app.Logger.With("module", m.Name()),
		})
	}

	return engine
}
