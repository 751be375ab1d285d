package widget

import (
	"fmt"
	"html"
	"strings"
)

// EmbedCodes holds the two embeddable snippet variants for one agent.
type EmbedCodes struct {
	// Legacy spreads the configuration across individual attributes.
	Legacy string `json:"legacyEmbedCode"`
	// Encoded carries the whole configuration as one base64 attribute.
	Encoded string `json:"encodedEmbedCode"`
}

// BuildEmbedCodes renders both embed snippet variants for a widget
// configuration. Pure transform: no I/O, no side effects. A missing api
// key is a configuration error surfaced to the dashboard caller instead
// of emitting a script referencing an undefined identifier.
func BuildEmbedCodes(cfg Config, publicURL string) (EmbedCodes, error) {
	cfg = cfg.Normalize()
	if cfg.APIKey == "" {
		return EmbedCodes{}, ErrMissingAPIKey
	}
	if cfg.Platform == "" {
		return EmbedCodes{}, fmt.Errorf("widget: platform is required")
	}
	src := scriptURL(publicURL, cfg.Platform)

	var legacy strings.Builder
	legacy.WriteString(`<script src="` + html.EscapeString(src) + `"`)
	writeAttr(&legacy, AttrAgentID, cfg.APIKey)
	writeAttr(&legacy, AttrPosition, string(cfg.Position))
	writeAttr(&legacy, AttrColor, cfg.Color)
	writeAttr(&legacy, AttrWelcome, cfg.WelcomeMessage)
	writeAttr(&legacy, AttrPlatformID, cfg.PlatformID)
	legacy.WriteString(` async></script>`)

	payload, err := EncodePayload(cfg)
	if err != nil {
		return EmbedCodes{}, err
	}
	encoded := fmt.Sprintf(`<script src="%s" %s="%s" async></script>`,
		html.EscapeString(src), AttrConfig, html.EscapeString(payload))

	return EmbedCodes{Legacy: legacy.String(), Encoded: encoded}, nil
}

func scriptURL(publicURL, platform string) string {
	return strings.TrimRight(publicURL, "/") + "/widget/" + platform + "-widget.js"
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}
