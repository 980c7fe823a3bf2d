package http

import (
	"steam_search_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context mounted on the API. The router only knows
// modules through this interface.
type Module interface {
	Name() string
	RegisterRoutes(rc *RouterContext)
}

// RouterContext is handed to every module during route registration.
type RouterContext struct {
	// V1 is /api/v1 with rate limiting applied.
	V1 *gin.RouterGroup
	// Logger is scoped to the module being registered.
	Logger *logger.Logger
}
