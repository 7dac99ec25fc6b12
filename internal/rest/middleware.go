package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
	"github.com/KilimcininKorOglu/kimlik/internal/metrics"
)

const (
	claimsKey       = "kimlik.claims"
	requestIDHeader = "X-Request-ID"
)

// ClaimsFrom returns the verified token claims of the request, if any.
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// LoggingMiddleware assigns a request ID, logs the request and records
// HTTP metrics.
func LoggingMiddleware(logger logging.Logger) gin.HandlerFunc {
	restLogger := logger.WithSource("rest")
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())

		msg := getAuditMessage(c.Request.Method, c.Request.URL.Path)
		if msg == "" {
			return
		}

		reqLogger := restLogger.WithRequestID(requestID)
		if claims := ClaimsFrom(c); claims != nil {
			reqLogger = reqLogger.WithUser(claims.Subject)
		}
		reqLogger.Info(msg,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"remoteAddr", c.ClientIP(),
		)
	}
}

// getAuditMessage returns a meaningful audit message based on path and method
func getAuditMessage(method, path string) string {
	switch {
	case path == "/api/v1/health", path == "/metrics":
		return ""
	case strings.HasSuffix(path, "/users/v2/search-by-attributes"):
		return "REST paginated user search"
	case strings.HasSuffix(path, "/users/search-by-attributes"):
		return "REST user search by attributes"
	case strings.HasSuffix(path, "/users/search"):
		return "REST user search"
	case strings.HasPrefix(path, "/api/v1/config"):
		if method == http.MethodPost && strings.HasSuffix(path, "/reload") {
			return "REST reload config"
		}
		return "REST get config"
	}
	return "REST request"
}

// CORSMiddleware handles CORS headers.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed, wildcard := false, false
		for _, o := range allowedOrigins {
			if o == origin {
				allowed = true
				break
			}
			if o == "*" {
				wildcard = true
			}
		}

		// Credentials are only shared with explicitly listed origins.
		if origin != "" && (allowed || wildcard) {
			if allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Vary", "Origin")
			} else {
				c.Header("Access-Control-Allow-Origin", "*")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RecoveryMiddleware recovers from panics.
func RecoveryMiddleware(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.FromContext(c.Request.Context(), logger).Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
				)
				writeError(c, http.StatusInternalServerError, "internal_error", "internal server error")
			}
		}()

		c.Next()
	}
}

// Rate limiter entries unseen for rateLimitStaleAfter are evicted every
// rateLimitCleanupInterval.
const (
	rateLimitCleanupInterval = time.Minute
	rateLimitStaleAfter      = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters map[string]*ipLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with an equal burst.
func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    requestsPerSecond,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanup removes entries that haven't been seen for staleAfter.
func (rl *RateLimiter) cleanup(staleAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
		}
	}
}

// startCleanup evicts stale entries every interval until ctx is cancelled.
// The caller waits on wg for the goroutine to exit.
func (rl *RateLimiter) startCleanup(ctx context.Context, wg *sync.WaitGroup, interval, staleAfter time.Duration) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup(staleAfter)
			}
		}
	}()
}

// RateLimitMiddleware limits request rate per IP.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.getLimiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			writeError(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		c.Next()
	}
}

// AuthMiddleware validates bearer tokens.
func AuthMiddleware(auth *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			writeError(c, http.StatusUnauthorized, "unauthorized", "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			writeError(c, http.StatusUnauthorized, "unauthorized", "unsupported authorization type")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RealmAdminMiddleware admits tokens issued for the :realm path segment
// that carry the realm admin role.
func RealmAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			writeError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		realm := c.Param("realm")
		if err := identity.ValidateRealm(realm); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_realm", err.Error())
			return
		}

		if !claims.HasRole(RealmAdminRole) {
			writeError(c, http.StatusForbidden, "forbidden", "realm admin access required")
			return
		}

		if claims.Realm != realm {
			writeError(c, http.StatusForbidden, "forbidden", "Forbidden users search request for specified realm")
			return
		}

		c.Next()
	}
}
