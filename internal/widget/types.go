package widget

import (
	"errors"
	"strings"
)

// Position places the launcher button in one screen corner.
type Position string

const (
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionTopRight    Position = "top-right"
	PositionTopLeft     Position = "top-left"
)

// DefaultPosition is used when an embed carries no position or an
// unrecognized one. Unknown values must never abort rendering.
const DefaultPosition = PositionBottomRight

// NormalizePosition maps arbitrary input onto one of the four corners.
func NormalizePosition(raw string) Position {
	switch Position(strings.ToLower(strings.TrimSpace(raw))) {
	case PositionBottomRight, PositionBottomLeft, PositionTopRight, PositionTopLeft:
		return Position(strings.ToLower(strings.TrimSpace(raw)))
	default:
		return DefaultPosition
	}
}

// Config is the canonical widget configuration embedded on a host page.
// An encoded embed carries it as one base64 JSON attribute; a legacy embed
// spreads it across individual data-* attributes. The base64 form is
// obfuscation only and guarantees neither confidentiality nor integrity.
type Config struct {
	APIKey         string   `json:"apiKey"`
	Platform       string   `json:"platform,omitempty"`
	Position       Position `json:"position,omitempty"`
	Color          string   `json:"color,omitempty"`
	WelcomeMessage string   `json:"welcomeMessage,omitempty"`
	// PlatformID is the platform-specific routing target: WhatsApp
	// business number, Telegram username, Facebook page id, Instagram
	// business id, Discord guild or invite, LINE id. Optional; adapters
	// fall back to the platform homepage when absent.
	PlatformID string `json:"platformId,omitempty"`
}

// Normalize trims fields and coerces the position onto a known corner.
func (c Config) Normalize() Config {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	c.Position = NormalizePosition(string(c.Position))
	c.Color = strings.TrimSpace(c.Color)
	c.WelcomeMessage = strings.TrimSpace(c.WelcomeMessage)
	c.PlatformID = strings.TrimSpace(c.PlatformID)
	return c
}

// SourceKind tags which embed variant a script tag carried.
type SourceKind string

const (
	// SourceEncoded is the single data-agent-config base64 attribute.
	SourceEncoded SourceKind = "encoded"
	// SourceLegacy is the older one-attribute-per-field form.
	SourceLegacy SourceKind = "legacy"
)

// Legacy embed attribute names.
const (
	AttrConfig     = "data-agent-config"
	AttrAgentID    = "data-agent-id"
	AttrPosition   = "data-position"
	AttrColor      = "data-color"
	AttrWelcome    = "data-welcome-msg"
	AttrPlatformID = "data-platform-id"
)

// Source is the tagged union of the two embed variants. Exactly one of
// Payload (encoded) or Legacy (attribute map) is consulted, selected by
// Kind.
type Source struct {
	Kind    SourceKind
	Payload string
	Legacy  map[string]string
}

var (
	// ErrNoConfig means no recognizable embed attributes were found.
	ErrNoConfig = errors.New("widget: no embed configuration found")
	// ErrDecodeConfig means the encoded payload is malformed base64 or JSON.
	ErrDecodeConfig = errors.New("widget: embed configuration is malformed")
	// ErrMissingAPIKey means the configuration carries no agent api key.
	ErrMissingAPIKey = errors.New("widget: api key is required")
)
