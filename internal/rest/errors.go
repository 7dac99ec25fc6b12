package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

// mapStoreError maps a store error to HTTP status and error code.
func mapStoreError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable", "user store is closed"
	case errors.Is(err, store.ErrInvalidUser):
		return http.StatusBadRequest, "invalid_user", err.Error()
	default:
		return http.StatusInternalServerError, "storage_error", "storage error"
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   code,
		Code:    status,
		Message: message,
	})
}
