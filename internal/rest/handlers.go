package rest

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KilimcininKorOglu/kimlik/internal/config"
	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
	"github.com/KilimcininKorOglu/kimlik/internal/search"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

// Version is reported by the health endpoint. Set by the main package.
var Version = "dev"

// Handlers contains all REST API handlers.
type Handlers struct {
	store         store.Store
	searcher      atomic.Pointer[search.Searcher]
	configManager *config.ConfigManager
	logger        logging.Logger
	startTime     time.Time
	requestCount  int64
}

// NewHandlers creates new handlers.
func NewHandlers(st store.Store, searcher *search.Searcher, logger logging.Logger) *Handlers {
	h := &Handlers{
		store:     st,
		logger:    logger,
		startTime: time.Now(),
	}
	h.searcher.Store(searcher)
	return h
}

// SetConfigManager sets the config manager for config-related endpoints.
func (h *Handlers) SetConfigManager(m *config.ConfigManager) {
	h.configManager = m
}

// SetSearcher replaces the searcher used by subsequent requests.
func (h *Handlers) SetSearcher(s *search.Searcher) {
	h.searcher.Store(s)
}

// HandleHealth handles GET /api/v1/health
func (h *Handlers) HandleHealth(c *gin.Context) {
	uptime := time.Since(h.startTime)
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Version:    Version,
		Uptime:     uptime.Round(time.Second).String(),
		UptimeSecs: int64(uptime.Seconds()),
		StartTime:  h.startTime,
		Requests:   atomic.LoadInt64(&h.requestCount),
	})
}

// HandleSearchUsers handles POST /admin/realms/:realm/users/search
func (h *Handlers) HandleSearchUsers(c *gin.Context) {
	atomic.AddInt64(&h.requestCount, 1)

	var req SearchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	users, err := h.searcher.Load().SearchEquals(c.Request.Context(), h.source(c), req.Attributes)
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertUsers(users))
}

// HandleSearchByAttributes handles POST /admin/realms/:realm/users/search-by-attributes
func (h *Handlers) HandleSearchByAttributes(c *gin.Context) {
	atomic.AddInt64(&h.requestCount, 1)

	var req SearchByAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	users, err := h.searcher.Load().SearchEqualsAndStartsWith(c.Request.Context(), h.source(c),
		req.AttributesEquals, filter.AttributeMap(req.AttributesStartsWith))
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertUsers(users))
}

// HandleSearchByAttributesV2 handles POST /admin/realms/:realm/users/v2/search-by-attributes
func (h *Handlers) HandleSearchByAttributesV2(c *gin.Context) {
	atomic.AddInt64(&h.requestCount, 1)

	var req SearchByAttributesV2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	page, err := h.searcher.Load().Search(c.Request.Context(), h.source(c), toSearchRequest(&req))
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchUsersResponse{
		Users:      convertUsers(page.Users),
		Pagination: PaginationResponse{ContinueToken: page.NextCursor},
	})
}

func toSearchRequest(req *SearchByAttributesV2Request) search.Request {
	out := search.Request{
		Filter: filter.Set{
			Equals:     filter.AttributeMap(req.AttributesEquals),
			StartsWith: filter.AttributeMap(req.AttributesStartsWith),
			IsPrefixOf: filter.AttributeMap(req.AttributesThatAreStartFor),
		},
	}
	if p := req.Pagination; p != nil {
		if p.Limit != nil {
			out.Limit = *p.Limit
		}
		if p.ContinueToken != nil {
			out.Cursor = *p.ContinueToken
		}
	}
	return out
}

func (h *Handlers) source(c *gin.Context) search.Source {
	return store.Scoped(h.store, c.Param("realm"))
}

func (h *Handlers) storeError(c *gin.Context, err error) {
	status, code, msg := mapStoreError(err)
	logging.FromContext(c.Request.Context(), h.logger).Error("user search failed",
		"realm", c.Param("realm"),
		"error", err,
	)
	writeError(c, status, code, msg)
}
