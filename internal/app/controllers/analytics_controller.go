package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academia/internal/app/models/dto"
	"github.com/yigit/academia/internal/app/services"
	"github.com/yigit/academia/internal/middleware"
)

// AnalyticsController exposes session rollups
type AnalyticsController struct {
	analytics services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analytics services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// Aggregate returns per-status and per-department totals
// @Summary Session analytics
// @Description Per-status session counts and enrolled totals, recomputed on every call
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param instituteId query int false "Institute ID (omit or 0 for all institutes)"
// @Success 200 {object} dto.APIResponse{data=services.AnalyticsReport} "Analytics computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid institute ID"
// @Router /sessions/analytics [get]
func (c *AnalyticsController) Aggregate(ctx *gin.Context) {
	var instituteID int64
	if raw := ctx.Query("instituteId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			badRequest(ctx, "Invalid institute ID", "Institute ID must be a non-negative number")
			return
		}
		instituteID = id
	}

	report, err := c.analytics.Aggregate(ctx, instituteID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(report))
}
