package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/agenthubhq/agenthub/internal/analytics"
	"github.com/agenthubhq/agenthub/internal/auth"
)

// AnalyticsHandler exposes per-agent interaction analytics.
type AnalyticsHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(log *slog.Logger, service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "analytics")),
	}
}

func (h *AnalyticsHandler) Register(e *echo.Echo) {
	group := e.Group("/agents/:id/analytics")
	group.GET("/recent", h.Recent)
	group.GET("/daily", h.Daily)
}

// Recent godoc
// @Summary Recent interactions for an agent
// @Tags analytics
// @Param id path string true "Agent ID"
// @Param limit query int false "Max events, capped at 500"
// @Success 200 {array} analytics.InteractionEvent
// @Router /agents/{id}/analytics/recent [get]
func (h *AnalyticsHandler) Recent(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.service.Recent(c.Request().Context(), userID, c.Param("id"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// Daily godoc
// @Summary Daily interaction counts for an agent
// @Tags analytics
// @Param id path string true "Agent ID"
// @Param days query int false "Trailing window in days, capped at 365"
// @Success 200 {array} analytics.DailyCount
// @Router /agents/{id}/analytics/daily [get]
func (h *AnalyticsHandler) Daily(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.service.DailySeries(c.Request().Context(), userID, c.Param("id"), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
