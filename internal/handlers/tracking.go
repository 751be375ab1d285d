package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agenthubhq/agenthub/internal/tracking"
)

// interactionRecorder persists widget interaction events. Satisfied by
// *tracking.Service.
type interactionRecorder interface {
	Record(ctx context.Context, event tracking.Event) error
}

// TrackingHandler accepts widget interaction beacons from host pages.
type TrackingHandler struct {
	service interactionRecorder
	logger  *slog.Logger
}

// NewTrackingHandler creates a TrackingHandler.
func NewTrackingHandler(log *slog.Logger, service *tracking.Service) *TrackingHandler {
	return &TrackingHandler{
		service: service,
		logger:  log.With(slog.String("handler", "tracking")),
	}
}

func (h *TrackingHandler) Register(e *echo.Echo) {
	e.POST("/api/widget-interaction", h.Record)
}

// Record godoc
// @Summary Record a widget interaction
// @Description Accepts the event and persists it asynchronously. A well-formed
// @Description event is always accepted; an unknown api key is dropped silently.
// @Tags tracking
// @Accept json
// @Param request body tracking.Event true "Interaction event"
// @Success 202
// @Failure 400 {object} ErrorResponse
// @Router /api/widget-interaction [post]
func (h *TrackingHandler) Record(c echo.Context) error {
	var event tracking.Event
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(event.APIKey) == "" || strings.TrimSpace(event.Action) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, tracking.ErrInvalidEvent.Error())
	}
	// The beacon sender has already navigated away; never make it wait
	// on the database.
	recordCtx := context.WithoutCancel(c.Request().Context())
	go func() {
		ctx, cancel := context.WithTimeout(recordCtx, 5*time.Second)
		defer cancel()
		if err := h.service.Record(ctx, event); err != nil {
			h.logger.Debug("record interaction failed", slog.Any("error", err))
		}
	}()
	return c.NoContent(http.StatusAccepted)
}
