package messenger

import (
	"strings"

	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type is the Facebook Messenger platform slug.
const Type = platform.Type("messenger")

const fallbackURL = "https://www.messenger.com/"

// Adapter implements platform.Adapter for Facebook Messenger.
type Adapter struct{}

// New creates the Messenger adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Type() platform.Type {
	return Type
}

func (a *Adapter) Descriptor() platform.Descriptor {
	return platform.Descriptor{
		Type:           Type,
		DisplayName:    "Messenger",
		BrandColor:     "#0084FF",
		Icon:           icon,
		FallbackURL:    fallbackURL,
		IdentifierHint: "Facebook page id or page username",
	}
}

// BuildDeepLink constructs an m.me link to the configured page.
func (a *Adapter) BuildDeepLink(cfg widget.Config) (string, error) {
	pageID := strings.TrimSpace(cfg.PlatformID)
	if pageID == "" {
		return fallbackURL, nil
	}
	return "https://m.me/" + pageID, nil
}

const icon = `<svg viewBox="0 0 24 24" fill="currentColor"><path d="M12 2C6.4 2 2 6.1 2 11.3c0 2.9 1.4 5.5 3.6 7.2V22l3.3-1.8c.9.2 2 .4 3.1.4 5.6 0 10-4.1 10-9.3S17.6 2 12 2zm1.1 12.5-2.6-2.7-5 2.7 5.5-5.8 2.6 2.7 4.9-2.7-5.4 5.8z"/></svg>`
