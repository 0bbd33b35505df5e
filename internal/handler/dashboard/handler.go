package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/handler"
	"github.com/sunrisehealth/portal-api/internal/model"
	"github.com/sunrisehealth/portal-api/internal/service/roster"
	"github.com/sunrisehealth/portal-api/internal/service/timeline"
)

const statsCacheKey = "dashboard_stats"

type Handler struct {
	service  roster.RosterService
	timeline *timeline.Service
	cache    *gocache.Cache
	logger   *zerolog.Logger
}

func NewHandler(service roster.RosterService, tl *timeline.Service, logger *zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		timeline: tl,
		cache:    gocache.New(5*time.Second, time.Minute),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
		dashboard.GET("/timeline", h.GetTimeline)
	}
}

// GetStats serves the KPI counts, cached briefly since every portal
// page load requests them.
func (h *Handler) GetStats(c *gin.Context) {
	if cached, ok := h.cache.Get(statsCacheKey); ok {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(cached.(model.DashboardStats)))
		return
	}

	stats := h.service.Stats(c.Request.Context())
	h.cache.SetDefault(statsCacheKey, stats)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) GetTimeline(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid limit"))
			return
		}
		limit = parsed
	}

	events, err := h.timeline.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load timeline")
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load timeline"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}
