package telegram

import (
	"strings"

	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/common"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type is the Telegram platform slug.
const Type = platform.Type("telegram")

const fallbackURL = "https://t.me/"

// Adapter implements platform.Adapter for Telegram.
type Adapter struct{}

// New creates the Telegram adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Type() platform.Type {
	return Type
}

func (a *Adapter) Descriptor() platform.Descriptor {
	return platform.Descriptor{
		Type:           Type,
		DisplayName:    "Telegram",
		BrandColor:     "#0088CC",
		Icon:           icon,
		FallbackURL:    fallbackURL,
		IdentifierHint: "bot or business @username",
	}
}

// BuildDeepLink constructs a t.me link. A missing username degrades to
// the bare t.me fallback rather than a broken link.
func (a *Adapter) BuildDeepLink(cfg widget.Config) (string, error) {
	username := strings.TrimPrefix(strings.TrimSpace(cfg.PlatformID), "@")
	if username == "" {
		return fallbackURL, nil
	}
	link := "https://t.me/" + username
	if msg := strings.TrimSpace(cfg.WelcomeMessage); msg != "" {
		link += "?start=" + common.QueryComponent(msg)
	}
	return link, nil
}

const icon = `<svg viewBox="0 0 24 24" fill="currentColor"><path d="M21.9 4.3 18.6 20c-.2 1-.9 1.3-1.8.8l-5-3.7-2.4 2.3c-.3.3-.5.5-1 .5l.4-5 9.2-8.3c.4-.3-.1-.5-.6-.2L6 13.5l-4.9-1.5c-1-.3-1-1 .2-1.5l19.2-7.4c.9-.3 1.6.2 1.4 1.2z"/></svg>`
