package line

import (
	"strings"

	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type is the LINE platform slug.
const Type = platform.Type("line")

const fallbackURL = "https://line.me/"

// Adapter implements platform.Adapter for LINE official accounts.
type Adapter struct{}

// New creates the LINE adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Type() platform.Type {
	return Type
}

func (a *Adapter) Descriptor() platform.Descriptor {
	return platform.Descriptor{
		Type:           Type,
		DisplayName:    "LINE",
		BrandColor:     "#06C755",
		Icon:           icon,
		FallbackURL:    fallbackURL,
		IdentifierHint: "official account id, usually starting with @",
	}
}

// BuildDeepLink constructs a line.me add-friend/chat link.
func (a *Adapter) BuildDeepLink(cfg widget.Config) (string, error) {
	id := strings.TrimSpace(cfg.PlatformID)
	if id == "" {
		return fallbackURL, nil
	}
	return "https://line.me/R/ti/p/" + id, nil
}

const icon = `<svg viewBox="0 0 24 24" fill="currentColor"><path d="M12 2C6.5 2 2 5.7 2 10.2c0 4 3.5 7.4 8.3 8.1.3.1.8.2.9.5.1.3 0 .7 0 1l-.1.9c0 .3-.2 1 .9.6 1.1-.5 6-3.6 8.2-6.1 1.5-1.7 2.2-3.4 2.2-5.2C22.4 5.7 17.5 2 12 2zM8.1 12.9H6.2a.5.5 0 0 1-.5-.5V8.6a.5.5 0 0 1 1 0v3.3h1.4a.5.5 0 0 1 0 1zm1.9-.5a.5.5 0 0 1-1 0V8.6a.5.5 0 0 1 1 0v3.8zm4.7 0a.5.5 0 0 1-.9.3L12 10.1v2.3a.5.5 0 0 1-1 0V8.6a.5.5 0 0 1 .9-.3l1.8 2.6V8.6a.5.5 0 0 1 1 0v3.8zm3.1-2.4a.5.5 0 0 1 0 1h-1.4v.9h1.4a.5.5 0 0 1 0 1h-1.9a.5.5 0 0 1-.5-.5V8.6c0-.3.2-.5.5-.5h1.9a.5.5 0 0 1 0 1h-1.4v.9h1.4z"/></svg>`
