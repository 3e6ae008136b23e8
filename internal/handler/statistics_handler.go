package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-api/internal/middleware"
	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/pkg/response"
)

type statisticsService interface {
	Summary(ctx context.Context, scope models.Scope) (*models.Statistics, error)
	GroupSummary(ctx context.Context, scope models.Scope, groupID string) (*models.Statistics, error)
}

// StatisticsHandler exposes the dashboard rollups.
type StatisticsHandler struct {
	stats statisticsService
}

// NewStatisticsHandler constructs StatisticsHandler.
func NewStatisticsHandler(stats statisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Summary godoc
// @Summary Statistics of the active period for the caller's scope
// @Description Admins see every group, coordinators their program and tutors their own groups
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	stats, err := h.stats.Summary(c.Request.Context(), scopeFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, stats)
}

// GroupSummary godoc
// @Summary Statistics of a single group
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /groups/{id}/statistics [get]
func (h *StatisticsHandler) GroupSummary(c *gin.Context) {
	stats, err := h.stats.GroupSummary(c.Request.Context(), scopeFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, stats)
}

func (h *StatisticsHandler) respond(c *gin.Context, stats *models.Statistics) {
	middleware.SetCacheHit(c, stats.Cached)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}
