package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agenthubhq/agenthub/internal/connect"
	"github.com/agenthubhq/agenthub/internal/platform"
)

// PlatformsHandler lists the supported messaging platforms and, when
// live bot sessions are enabled, their connection state.
type PlatformsHandler struct {
	registry *platform.Registry
	manager  *connect.Manager
	logger   *slog.Logger
}

// NewPlatformsHandler creates a PlatformsHandler. The connect manager
// is optional.
func NewPlatformsHandler(log *slog.Logger, registry *platform.Registry, manager *connect.Manager) *PlatformsHandler {
	return &PlatformsHandler{
		registry: registry,
		manager:  manager,
		logger:   log.With(slog.String("handler", "platforms")),
	}
}

func (h *PlatformsHandler) Register(e *echo.Echo) {
	e.GET("/platforms", h.List)
	e.GET("/connections", h.Connections)
}

// List godoc
// @Summary List supported platforms
// @Tags platforms
// @Success 200 {array} platform.Descriptor
// @Router /platforms [get]
func (h *PlatformsHandler) List(c echo.Context) error {
	adapters := h.registry.List()
	items := make([]platform.Descriptor, 0, len(adapters))
	for _, adapter := range adapters {
		items = append(items, adapter.Descriptor())
	}
	return c.JSON(http.StatusOK, items)
}

// Connections godoc
// @Summary List live bot sessions
// @Tags platforms
// @Success 200 {array} connect.Status
// @Router /connections [get]
func (h *PlatformsHandler) Connections(c echo.Context) error {
	if h.manager == nil {
		return c.JSON(http.StatusOK, []connect.Status{})
	}
	return c.JSON(http.StatusOK, h.manager.Statuses())
}
