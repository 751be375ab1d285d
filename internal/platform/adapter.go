// Package platform defines the messaging-platform adapter interface and
// registry. One adapter per platform owns deep-link construction and
// branding; the widget lifecycle is shared and lives in internal/widget.
package platform

import (
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type identifies a messaging platform.
type Type string

func (t Type) String() string {
	return string(t)
}

// Adapter is implemented once per messaging platform.
type Adapter interface {
	Type() Type
	Descriptor() Descriptor
	// BuildDeepLink constructs the platform hand-off URL for a resolved
	// widget configuration. When the configuration carries no platform
	// identifier the adapter returns its generic fallback URL rather
	// than a broken link.
	BuildDeepLink(cfg widget.Config) (string, error)
}

// Descriptor holds read-only metadata for a registered platform. It
// contains no behavior; rendering and URL logic stay on the adapter.
type Descriptor struct {
	Type        Type
	DisplayName string
	// BrandColor is the launcher background when the agent sets none.
	BrandColor string
	// Icon is the inline SVG drawn on the launcher button.
	Icon string
	// FallbackURL opens when no platform identifier is configured.
	FallbackURL string
	// IdentifierHint describes the expected platform identifier, e.g.
	// "business phone number" or "@username".
	IdentifierHint string
}
