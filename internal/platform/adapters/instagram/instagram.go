package instagram

import (
	"strings"

	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type is the Instagram platform slug.
const Type = platform.Type("instagram")

const fallbackURL = "https://www.instagram.com/"

// Adapter implements platform.Adapter for Instagram direct messages.
type Adapter struct{}

// New creates the Instagram adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Type() platform.Type {
	return Type
}

func (a *Adapter) Descriptor() platform.Descriptor {
	return platform.Descriptor{
		Type:           Type,
		DisplayName:    "Instagram",
		BrandColor:     "#E4405F",
		Icon:           icon,
		FallbackURL:    fallbackURL,
		IdentifierHint: "Instagram business account id or handle",
	}
}

// BuildDeepLink constructs an ig.me direct-message link.
func (a *Adapter) BuildDeepLink(cfg widget.Config) (string, error) {
	businessID := strings.TrimSpace(cfg.PlatformID)
	if businessID == "" {
		return fallbackURL, nil
	}
	return "https://ig.me/m/" + businessID, nil
}

const icon = `<svg viewBox="0 0 24 24" fill="currentColor"><path d="M12 2.2c3.2 0 3.6 0 4.9.1 3.3.1 4.8 1.7 4.9 4.9.1 1.3.1 1.6.1 4.8s0 3.6-.1 4.8c-.1 3.2-1.7 4.8-4.9 4.9-1.3.1-1.6.1-4.9.1s-3.6 0-4.9-.1c-3.3-.1-4.8-1.7-4.9-4.9-.1-1.3-.1-1.6-.1-4.8s0-3.6.1-4.8C2.3 4 3.9 2.4 7.1 2.3c1.3-.1 1.7-.1 4.9-.1zm0 3.6a6.2 6.2 0 1 0 0 12.4 6.2 6.2 0 0 0 0-12.4zm0 10.2a4 4 0 1 1 0-8 4 4 0 0 1 0 8zm6.4-10.4a1.4 1.4 0 1 1-2.9 0 1.4 1.4 0 0 1 2.9 0z"/></svg>`
