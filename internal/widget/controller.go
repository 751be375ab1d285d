package widget

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Bubble timing shared by the controller and the generated scripts.
const (
	// BubbleDelay is how long after load the welcome bubble appears.
	BubbleDelay = 2 * time.Second
	// BubbleAutoHide removes an undismissed bubble.
	BubbleAutoHide = 8 * time.Second
)

// DeepLinker builds the platform hand-off URL for a configuration.
// Platform adapters implement it.
type DeepLinker interface {
	BuildDeepLink(cfg Config) (string, error)
}

// TrackFunc records a widget interaction. Implementations must be
// best-effort: the controller never waits on them and discards failures.
type TrackFunc func(ctx context.Context, cfg Config, action string)

// Controller owns the per-page-load widget state the platform scripts
// model: resolved configuration, launcher appearance, the single welcome
// bubble, and the click hand-off. State that used to live in globals
// (duplicate-bubble guard, style singleton) is explicit instance state
// here; a controller lives as long as its page and is never torn down.
type Controller struct {
	cfg   Config
	links DeepLinker
	track TrackFunc

	mu          sync.Mutex
	bubbleShown bool
}

// RenderState is what the launcher needs to draw itself.
type RenderState struct {
	Position       Position `json:"position"`
	Color          string   `json:"color"`
	WelcomeMessage string   `json:"welcomeMessage,omitempty"`
}

// NewController builds a controller for an already-resolved configuration.
func NewController(cfg Config, links DeepLinker, track TrackFunc) (*Controller, error) {
	cfg = cfg.Normalize()
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if links == nil {
		return nil, fmt.Errorf("widget: deep linker is required")
	}
	return &Controller{cfg: cfg, links: links, track: track}, nil
}

// Config returns the resolved configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// RenderState derives the launcher appearance, falling back to the given
// brand color when the configuration sets none.
func (c *Controller) RenderState(brandColor string) RenderState {
	color := c.cfg.Color
	if color == "" {
		color = brandColor
	}
	return RenderState{
		Position:       c.cfg.Position,
		Color:          color,
		WelcomeMessage: c.cfg.WelcomeMessage,
	}
}

// ShowBubble marks the welcome bubble visible. It reports whether the
// bubble was newly shown; a second call while one is present is a no-op,
// so at most one bubble exists at a time.
func (c *Controller) ShowBubble() bool {
	if c.cfg.WelcomeMessage == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bubbleShown {
		return false
	}
	c.bubbleShown = true
	return true
}

// DismissBubble removes the bubble, allowing a later ShowBubble again.
func (c *Controller) DismissBubble() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bubbleShown = false
}

// BubbleVisible reports whether the bubble is currently present.
func (c *Controller) BubbleVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bubbleShown
}

// Click builds the platform deep link and returns it synchronously so the
// caller can dispatch navigation inside the originating event. Tracking
// fires on its own goroutine; its outcome never blocks, delays, or fails
// the hand-off.
func (c *Controller) Click(ctx context.Context) (string, error) {
	link, err := c.links.BuildDeepLink(c.cfg)
	if err != nil {
		return "", err
	}
	if c.track != nil {
		go c.track(context.WithoutCancel(ctx), c.cfg, ActionClick)
	}
	return link, nil
}

// Interaction action names shared with the tracking endpoint.
const (
	ActionClick         = "widget_click"
	ActionView          = "widget_view"
	ActionBubbleDismiss = "bubble_dismissed"
)
