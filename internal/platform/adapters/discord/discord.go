package discord

import (
	"strings"

	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/widget"
)

// Type is the Discord platform slug.
const Type = platform.Type("discord")

const fallbackURL = "https://discord.com/"

// Adapter implements platform.Adapter for Discord.
type Adapter struct{}

// New creates the Discord adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Type() platform.Type {
	return Type
}

func (a *Adapter) Descriptor() platform.Descriptor {
	return platform.Descriptor{
		Type:           Type,
		DisplayName:    "Discord",
		BrandColor:     "#5865F2",
		Icon:           icon,
		FallbackURL:    fallbackURL,
		IdentifierHint: "invite code, or guild id optionally followed by /channel-id",
	}
}

// BuildDeepLink constructs a Discord entry URL. Numeric identifiers are
// treated as guild (and optional channel) ids, anything else as an
// invite code.
func (a *Adapter) BuildDeepLink(cfg widget.Config) (string, error) {
	id := strings.TrimSpace(cfg.PlatformID)
	if id == "" {
		return fallbackURL, nil
	}
	if isSnowflakePath(id) {
		return "https://discord.com/channels/" + id, nil
	}
	return "https://discord.gg/" + id, nil
}

// isSnowflakePath accepts "guildID" or "guildID/channelID" where both
// parts are numeric snowflakes.
func isSnowflakePath(id string) bool {
	parts := strings.Split(id, "/")
	if len(parts) > 2 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

const icon = `<svg viewBox="0 0 24 24" fill="currentColor"><path d="M20.3 4.4A19.8 19.8 0 0 0 15.4 3l-.2.5a18 18 0 0 1 4.6 2.3A14.7 14.7 0 0 0 7.1 5L6.8 4.5A19.8 19.8 0 0 0 3.7 4.4 20.3 20.3 0 0 0 .2 18.1a19.9 19.9 0 0 0 6 3l.8-1.4a12.9 12.9 0 0 1-2-1l.5-.4a14.2 14.2 0 0 0 12.1 0l.5.4c-.7.4-1.4.7-2.1 1l.8 1.4a19.8 19.8 0 0 0 6-3A20.2 20.2 0 0 0 20.3 4.4zM8.7 15.3c-1 0-1.8-.9-1.8-2s.8-2 1.8-2 1.8.9 1.8 2-.8 2-1.8 2zm6.6 0c-1 0-1.8-.9-1.8-2s.8-2 1.8-2 1.8.9 1.8 2-.8 2-1.8 2z"/></svg>`
