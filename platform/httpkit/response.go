// Package httpkit holds the gin helpers shared by every module: response
// envelopes and middleware.
package httpkit

import (
	"errors"
	"net/http"

	"steam_search_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) { c.JSON(status, payload) }
func OK(c *gin.Context, payload any)               { c.JSON(http.StatusOK, payload) }
func Accepted(c *gin.Context, payload any)         { c.JSON(http.StatusAccepted, payload) }

func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes err and reports whether there was one. Typed errors
// keep their message and status; anything else is a bare 500 so internals
// never leak.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return true
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Error(c, status, appErr.Message, nil)
	return true
}
