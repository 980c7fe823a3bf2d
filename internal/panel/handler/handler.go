package handler

import (
	"net/http"
	"time"

	"steam_search_backend/internal/panel/service"
	"steam_search_backend/platform/httpkit"
	"steam_search_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	keepAliveInterval = 25 * time.Second
)

type Handler struct {
	registry *service.Registry
	val      *validator.Validator
}

func New(registry *service.Registry, val *validator.Validator) *Handler {
	return &Handler{registry: registry, val: val}
}

type queryRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type sessionPath struct {
	ID string `uri:"id" validate:"required,uuid"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/layout", h.GetLayout)

	sessions := rg.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.PUT("/:id/query", h.SetQuery)
	sessions.PUT("/:id/detail", h.OpenDetail)
	sessions.DELETE("/:id/detail", h.CloseDetail)
	sessions.GET("/:id/detail/markdown", h.GetDetailMarkdown)
	sessions.GET("/:id/events", h.StreamEvents)
}

func (h *Handler) GetLayout(c *gin.Context) {
	httpkit.OK(c, service.DefaultLayout())
}

func (h *Handler) CreateSession(c *gin.Context) {
	s := h.registry.Create()
	httpkit.JSON(c, http.StatusCreated, service.ViewOf(s.ID, s.Store.Snapshot()))
}

func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Touch()
	httpkit.OK(c, service.ViewOf(s.ID, s.Store.Snapshot()))
}

func (h *Handler) DeleteSession(c *gin.Context) {
	var path sessionPath
	if !h.bindPath(c, &path) {
		return
	}
	if httpkit.HandleError(c, h.registry.Delete(path.ID)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetQuery(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, s.SetQuery(req.Query)) {
		return
	}
	httpkit.Accepted(c, gin.H{"id": s.ID, "query": req.Query})
}

func (h *Handler) OpenDetail(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var target service.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(target); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, s.OpenDetail(target)) {
		return
	}
	httpkit.Accepted(c, gin.H{"id": s.ID, "appId": target.AppID})
}

func (h *Handler) CloseDetail(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.CloseDetail()
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetDetailMarkdown(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Touch()

	snap := s.Store.Snapshot()
	if snap.Detail == nil {
		httpkit.Error(c, http.StatusNotFound, "no detail view open", nil)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(service.RenderDetailMarkdown(snap.Detail)))
}

// StreamEvents pushes a "state" event for every snapshot until the client
// disconnects or the session is closed.
func (h *Handler) StreamEvents(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	updates, unsubscribe := s.Store.Subscribe()
	defer unsubscribe()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	clientGone := c.Request.Context().Done()
	sessionGone := s.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case <-sessionGone:
			c.SSEvent("closed", gin.H{"id": s.ID})
			c.Writer.Flush()
			return
		case <-keepAlive.C:
			s.Touch()
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			c.Writer.Flush()
		case snap, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("state", service.ViewOf(s.ID, snap))
			c.Writer.Flush()
		}
	}
}

func (h *Handler) session(c *gin.Context) (*service.Session, bool) {
	var path sessionPath
	if !h.bindPath(c, &path) {
		return nil, false
	}
	s, err := h.registry.Get(path.ID)
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return s, true
}

func (h *Handler) bindPath(c *gin.Context, path *sessionPath) bool {
	if err := c.ShouldBindUri(path); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(path); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
