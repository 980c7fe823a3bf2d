package handler

import (
	"context"
	"net/http"

	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/httpkit"
	"steam_search_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// StoreService is what the handler needs from the Steam service.
type StoreService interface {
	Search(ctx context.Context, query string) ([]transport.SearchResultItem, error)
	Details(ctx context.Context, appID string) (*transport.GameDetails, error)
}

type Handler struct {
	svc StoreService
	val *validator.Validator
}

func New(svc StoreService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/apps/:appId", h.GetDetails)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items, err := h.svc.Search(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SearchResponse{Items: items})
}

func (h *Handler) GetDetails(c *gin.Context) {
	var req transport.DetailsRequest
	if err := c.ShouldBindUri(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	details, err := h.svc.Details(c.Request.Context(), req.AppID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, details)
}
