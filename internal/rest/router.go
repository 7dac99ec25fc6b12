package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerAdminRole grants access to the server configuration endpoints.
const ServerAdminRole = "server-admin"

// RoleMiddleware admits tokens carrying role.
func RoleMiddleware(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			writeError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !claims.HasRole(role) {
			writeError(c, http.StatusForbidden, "forbidden", role+" role required")
			return
		}
		c.Next()
	}
}

// newRouter builds the gin engine with middleware in order: recovery,
// request logging, CORS, rate limiting, then per-group authentication.
func newRouter(cfg *ServerConfig, auth *Authenticator, limiter *RateLimiter, h *Handlers) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(RecoveryMiddleware(h.logger))
	r.Use(LoggingMiddleware(h.logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORSMiddleware(cfg.CORSOrigins))
	}
	if limiter != nil {
		r.Use(RateLimitMiddleware(limiter))
	}

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "not_found", "endpoint not found")
	})
	r.NoMethod(func(c *gin.Context) {
		writeError(c, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.GET("/api/v1/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := r.Group("/admin/realms/:realm/users", AuthMiddleware(auth), RealmAdminMiddleware())
	users.POST("/search", h.HandleSearchUsers)
	users.POST("/search-by-attributes", h.HandleSearchByAttributes)
	users.POST("/v2/search-by-attributes", h.HandleSearchByAttributesV2)

	cfgGroup := r.Group("/api/v1/config", AuthMiddleware(auth), RoleMiddleware(ServerAdminRole))
	cfgGroup.GET("", h.HandleGetConfig)
	cfgGroup.POST("/reload", h.HandleReloadConfig)

	return r
}
