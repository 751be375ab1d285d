package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/cache"
	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/tracking"
	"github.com/agenthubhq/agenthub/internal/widget"
)

const scriptSuffix = "-widget.js"

// WidgetHandler serves the public widget surface: the embeddable
// script, config resolution, and the click redirect that hands the
// visitor off to the messaging platform.
type WidgetHandler struct {
	agents   *agents.Service
	registry *platform.Registry
	cache    *cache.WidgetConfigs
	tracking interactionRecorder
	logger   *slog.Logger

	publicURL string
}

// NewWidgetHandler creates a WidgetHandler.
func NewWidgetHandler(log *slog.Logger, agentService *agents.Service, registry *platform.Registry, configs *cache.WidgetConfigs, trackingService *tracking.Service, publicURL string) *WidgetHandler {
	return &WidgetHandler{
		agents:    agentService,
		registry:  registry,
		cache:     configs,
		tracking:  trackingService,
		logger:    log.With(slog.String("handler", "widget")),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (h *WidgetHandler) Register(e *echo.Echo) {
	e.GET("/widget/:script", h.Script)
	e.GET("/api/widget-config", h.Config)
	e.GET("/w/:platform", h.Redirect)
}

// Script godoc
// @Summary Serve the embeddable widget script
// @Description The script name encodes the platform, e.g. whatsapp-widget.js.
// @Tags widget
// @Produce text/javascript
// @Param script path string true "Script name"
// @Success 200 {string} string
// @Failure 404 {object} ErrorResponse
// @Router /widget/{script} [get]
func (h *WidgetHandler) Script(c echo.Context) error {
	name := c.Param("script")
	if !strings.HasSuffix(name, scriptSuffix) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown widget script")
	}
	platformType, err := h.registry.ParseType(strings.TrimSuffix(name, scriptSuffix))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown platform")
	}
	adapter, ok := h.registry.Get(platformType)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown platform")
	}
	desc := adapter.Descriptor()
	script, err := widget.RenderScript(widget.ScriptParams{
		Platform:     platformType.String(),
		BrandColor:   desc.BrandColor,
		Icon:         desc.Icon,
		RedirectBase: h.publicURL + "/w/" + platformType.String(),
		TrackURL:     h.publicURL + "/api/widget-interaction",
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.Blob(http.StatusOK, "text/javascript; charset=utf-8", []byte(script))
}

type widgetConfigResponse struct {
	Config      widget.Config `json:"config"`
	DisplayName string        `json:"displayName,omitempty"`
	BrandColor  string        `json:"brandColor,omitempty"`
	DeepLink    string        `json:"deepLink,omitempty"`
}

// Config godoc
// @Summary Resolve a widget configuration
// @Description Accepts either ?key=<api key> or ?config=<base64 payload>.
// @Tags widget
// @Param key query string false "Agent api key"
// @Param config query string false "Encoded configuration payload"
// @Success 200 {object} widgetConfigResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/widget-config [get]
func (h *WidgetHandler) Config(c echo.Context) error {
	cfg, err := h.resolveConfig(c)
	if err != nil {
		return err
	}
	resp := widgetConfigResponse{Config: cfg}
	if adapter, ok := h.registry.Get(platform.Type(cfg.Platform)); ok {
		desc := adapter.Descriptor()
		resp.DisplayName = desc.DisplayName
		resp.BrandColor = desc.BrandColor
		if link, err := adapter.BuildDeepLink(cfg); err == nil {
			resp.DeepLink = link
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Redirect godoc
// @Summary Hand a widget click off to the messaging platform
// @Description Builds the platform deep link and redirects. The click is
// @Description recorded asynchronously and never delays the redirect.
// @Tags widget
// @Param platform path string true "Platform slug"
// @Param key query string false "Agent api key"
// @Param config query string false "Encoded configuration payload"
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /w/{platform} [get]
func (h *WidgetHandler) Redirect(c echo.Context) error {
	platformType, err := h.registry.ParseType(c.Param("platform"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown platform")
	}
	adapter, ok := h.registry.Get(platformType)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown platform")
	}
	cfg, err := h.resolveConfig(c)
	if err != nil {
		return err
	}
	if cfg.Platform == "" {
		cfg.Platform = platformType.String()
	}
	controller, err := widget.NewController(cfg, adapter, h.trackFunc())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link, err := controller.Click(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.Redirect(http.StatusFound, link)
}

// resolveConfig prefers the encoded payload and falls back to an api
// key lookup through the cache. A malformed payload is fail-closed.
func (h *WidgetHandler) resolveConfig(c echo.Context) (widget.Config, error) {
	ctx := c.Request().Context()
	if payload := strings.TrimSpace(c.QueryParam("config")); payload != "" {
		cfg, err := widget.Resolve(widget.Source{Kind: widget.SourceEncoded, Payload: payload})
		if err != nil {
			return widget.Config{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return cfg, nil
	}
	apiKey := strings.TrimSpace(c.QueryParam("key"))
	if apiKey == "" {
		return widget.Config{}, echo.NewHTTPError(http.StatusBadRequest, widget.ErrNoConfig.Error())
	}
	if cfg, ok := h.cache.Get(ctx, apiKey); ok {
		return cfg, nil
	}
	agent, err := h.agents.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			return widget.Config{}, echo.NewHTTPError(http.StatusNotFound, "agent not found")
		}
		return widget.Config{}, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	cfg := agent.WidgetConfig()
	h.cache.Set(ctx, cfg)
	return cfg, nil
}

// trackFunc records an interaction detached from the request context,
// so a slow database write cannot hold up the redirect.
func (h *WidgetHandler) trackFunc() widget.TrackFunc {
	return func(ctx context.Context, cfg widget.Config, action string) {
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := h.tracking.Record(recordCtx, tracking.Event{
			APIKey:   cfg.APIKey,
			Platform: cfg.Platform,
			Action:   action,
		}); err != nil {
			h.logger.Debug("record interaction failed", slog.Any("error", err))
		}
	}
}
