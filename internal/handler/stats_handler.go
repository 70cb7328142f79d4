package handler

import (
	"net/http"
	"time"

	"gestaomv/internal/middleware"
	"gestaomv/internal/model"
	"gestaomv/internal/service"
	"gestaomv/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/statistics/requests", middleware.RequireAnyRole(model.ReviewerRoles()...), h.GetRequestStatistics)
}

// GetRequestStatistics aggregates request counts and values within a date range.
// Defaults to the last 30 days when no bounds are given.
func (h *StatsHandler) GetRequestStatistics(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if t, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		start = t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		end = t
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date range"))
		return
	}

	stats, err := h.statsService.GetRequestStatistics(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
