package rest

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// HandleGetConfig handles GET /api/v1/config
func (h *Handlers) HandleGetConfig(c *gin.Context) {
	atomic.AddInt64(&h.requestCount, 1)

	if h.configManager == nil {
		writeError(c, http.StatusServiceUnavailable, "config_not_configured", "config manager not configured")
		return
	}

	c.JSON(http.StatusOK, h.configManager.ToJSON())
}

// HandleReloadConfig handles POST /api/v1/config/reload
func (h *Handlers) HandleReloadConfig(c *gin.Context) {
	atomic.AddInt64(&h.requestCount, 1)

	if h.configManager == nil {
		writeError(c, http.StatusServiceUnavailable, "config_not_configured", "config manager not configured")
		return
	}

	if err := h.configManager.Reload(); err != nil {
		writeError(c, http.StatusBadRequest, "reload_failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
