package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/auth"
	"github.com/agenthubhq/agenthub/internal/cache"
	"github.com/agenthubhq/agenthub/internal/connect"
	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/tracking"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// AgentsHandler manages agent CRUD, embed code generation, and api key
// rotation via REST API.
type AgentsHandler struct {
	service   *agents.Service
	cache     *cache.WidgetConfigs
	manager   *connect.Manager
	registry  *platform.Registry
	beacon    *tracking.Beacon
	publicURL string
	logger    *slog.Logger
}

// NewAgentsHandler creates an AgentsHandler. The connect manager is
// optional; without it bot sessions are not reconciled on writes.
func NewAgentsHandler(log *slog.Logger, service *agents.Service, configs *cache.WidgetConfigs, manager *connect.Manager, registry *platform.Registry, beacon *tracking.Beacon, publicURL string) *AgentsHandler {
	return &AgentsHandler{
		service:   service,
		cache:     configs,
		manager:   manager,
		registry:  registry,
		beacon:    beacon,
		publicURL: publicURL,
		logger:    log.With(slog.String("handler", "agents")),
	}
}

func (h *AgentsHandler) Register(e *echo.Echo) {
	group := e.Group("/agents")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/regenerate-key", h.RegenerateKey)
	group.GET("/:id/embed-code", h.EmbedCode)
	group.GET("/:id/preview", h.Preview)
}

// Create godoc
// @Summary Create agent
// @Tags agents
// @Accept json
// @Param request body agents.CreateRequest true "Agent"
// @Success 201 {object} agents.Agent
// @Failure 400 {object} ErrorResponse
// @Router /agents [post]
func (h *AgentsHandler) Create(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	var req agents.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	agent, err := h.service.Create(c.Request().Context(), userID, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.reconcileSession(c.Request().Context(), agent)
	return c.JSON(http.StatusCreated, agent)
}

// List godoc
// @Summary List agents
// @Tags agents
// @Success 200 {array} agents.Agent
// @Router /agents [get]
func (h *AgentsHandler) List(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get agent
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 200 {object} agents.Agent
// @Failure 404 {object} ErrorResponse
// @Router /agents/{id} [get]
func (h *AgentsHandler) Get(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	agent, err := h.service.GetOwned(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return agentError(err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Update godoc
// @Summary Update agent
// @Tags agents
// @Accept json
// @Param id path string true "Agent ID"
// @Param request body agents.UpdateRequest true "Fields to update"
// @Success 200 {object} agents.Agent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /agents/{id} [put]
func (h *AgentsHandler) Update(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	var req agents.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	agent, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return agentError(err)
	}
	// Published widgets read through the cache; drop the stale entry so
	// the next load sees the update.
	h.cache.Invalidate(c.Request().Context(), agent.APIKey)
	h.reconcileSession(c.Request().Context(), agent)
	return c.JSON(http.StatusOK, agent)
}

// Delete godoc
// @Summary Delete agent
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /agents/{id} [delete]
func (h *AgentsHandler) Delete(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	agent, err := h.service.GetOwned(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return agentError(err)
	}
	if err := h.service.Delete(c.Request().Context(), userID, agent.ID); err != nil {
		return agentError(err)
	}
	h.cache.Invalidate(c.Request().Context(), agent.APIKey)
	if h.manager != nil {
		_ = h.manager.RemoveAgent(context.WithoutCancel(c.Request().Context()), agent.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegenerateKey godoc
// @Summary Rotate the agent's widget api key
// @Description Previously published embed snippets stop resolving until republished.
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 200 {object} agents.Agent
// @Failure 404 {object} ErrorResponse
// @Router /agents/{id}/regenerate-key [post]
func (h *AgentsHandler) RegenerateKey(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	previous, err := h.service.GetOwned(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return agentError(err)
	}
	agent, err := h.service.RegenerateAPIKey(c.Request().Context(), userID, previous.ID)
	if err != nil {
		return agentError(err)
	}
	h.cache.Invalidate(c.Request().Context(), previous.APIKey, agent.APIKey)
	return c.JSON(http.StatusOK, agent)
}

type embedCodeResponse struct {
	widget.EmbedCodes
	Config widget.Config `json:"config"`
}

// EmbedCode godoc
// @Summary Get embed snippets
// @Description Returns both the legacy attribute snippet and the encoded snippet.
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 200 {object} embedCodeResponse
// @Failure 404 {object} ErrorResponse
// @Router /agents/{id}/embed-code [get]
func (h *AgentsHandler) EmbedCode(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	agent, err := h.service.GetOwned(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return agentError(err)
	}
	cfg := agent.WidgetConfig()
	codes, err := widget.BuildEmbedCodes(cfg, h.publicURL)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, embedCodeResponse{EmbedCodes: codes, Config: cfg})
}

type previewResponse struct {
	Config   widget.Config      `json:"config"`
	State    widget.RenderState `json:"state"`
	DeepLink string             `json:"deepLink"`
}

// Preview godoc
// @Summary Preview the widget as a visitor would see it
// @Description Resolves the launcher state and deep link, and registers a
// @Description widget_view through the same public ingest path real pages use.
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 200 {object} previewResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /agents/{id}/preview [get]
func (h *AgentsHandler) Preview(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	agent, err := h.service.GetOwned(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return agentError(err)
	}
	cfg := agent.WidgetConfig()
	adapter, ok := h.registry.Get(platform.Type(cfg.Platform))
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "platform has no adapter")
	}
	var track widget.TrackFunc
	if h.beacon != nil {
		track = h.beacon.Track
	}
	controller, err := widget.NewController(cfg, adapter, track)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	link, err := adapter.BuildDeepLink(cfg)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if h.beacon != nil {
		go h.beacon.Track(context.WithoutCancel(c.Request().Context()), cfg, widget.ActionView)
	}
	return c.JSON(http.StatusOK, previewResponse{
		Config:   controller.Config(),
		State:    controller.RenderState(adapter.Descriptor().BrandColor),
		DeepLink: link,
	})
}

func (h *AgentsHandler) reconcileSession(ctx context.Context, agent agents.Agent) {
	if h.manager == nil {
		return
	}
	go func() {
		if err := h.manager.EnsureAgent(context.WithoutCancel(ctx), agent); err != nil {
			h.logger.Warn("reconcile bot session failed",
				slog.String("agent_id", agent.ID), slog.Any("error", err))
		}
	}()
}

func agentError(err error) error {
	if errors.Is(err, agents.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "agent not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
