package whatsapp

import (
	"strings"

	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/common"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type is the WhatsApp platform slug.
const Type = platform.Type("whatsapp")

const fallbackURL = "https://www.whatsapp.com/"

// Adapter implements platform.Adapter for WhatsApp.
type Adapter struct{}

// New creates the WhatsApp adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Type() platform.Type {
	return Type
}

func (a *Adapter) Descriptor() platform.Descriptor {
	return platform.Descriptor{
		Type:           Type,
		DisplayName:    "WhatsApp",
		BrandColor:     "#25D366",
		Icon:           icon,
		FallbackURL:    fallbackURL,
		IdentifierHint: "business phone number in international format",
	}
}

// BuildDeepLink constructs a wa.me universal link. Non-digit characters
// are stripped from the configured number and the welcome message rides
// along as the prefilled text.
func (a *Adapter) BuildDeepLink(cfg widget.Config) (string, error) {
	digits := common.DigitsOnly(cfg.PlatformID)
	if digits == "" {
		return fallbackURL, nil
	}
	link := "https://wa.me/" + digits
	if msg := strings.TrimSpace(cfg.WelcomeMessage); msg != "" {
		link += "?text=" + common.QueryComponent(msg)
	}
	return link, nil
}

const icon = `<svg viewBox="0 0 24 24" fill="currentColor"><path d="M12 2a10 10 0 0 0-8.6 15.1L2 22l5-1.3A10 10 0 1 0 12 2zm5 13.8c-.2.6-1.2 1.2-1.7 1.2-.4.1-1 .1-1.6-.1a14 14 0 0 1-6-5.3c-.6-1-.9-2-.9-2.5 0-.6.3-1.2.7-1.6.3-.3.7-.3 1-.3h.6c.2 0 .4 0 .6.5l.8 2c.1.2.1.4 0 .6l-.4.6c-.2.2-.3.4-.1.7.5.9 1.7 2.2 3 2.8.3.2.5.1.7-.1l.6-.7c.2-.3.4-.2.7-.1l1.9.9c.3.1.4.3.4.5 0 .2 0 .6-.3.9z"/></svg>`
