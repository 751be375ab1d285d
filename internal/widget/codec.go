package widget

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// EncodePayload serializes a configuration to the base64 JSON form used
// by the data-agent-config embed attribute.
func EncodePayload(cfg Config) (string, error) {
	cfg = cfg.Normalize()
	if cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodePayload reverses EncodePayload. Any malformed input yields
// ErrDecodeConfig so callers can fail closed without rendering a widget.
func DecodePayload(payload string) (Config, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecodeConfig, err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecodeConfig, err)
	}
	return cfg.Normalize(), nil
}

// Resolve reduces an embed source to the canonical configuration.
// Encoded sources decode fail-closed; legacy sources substitute defaults
// for absent optional attributes. A source with no usable attributes is
// ErrNoConfig, and a resolved configuration without an api key is
// ErrMissingAPIKey.
func Resolve(src Source) (Config, error) {
	switch src.Kind {
	case SourceEncoded:
		if src.Payload == "" {
			return Config{}, ErrNoConfig
		}
		cfg, err := DecodePayload(src.Payload)
		if err != nil {
			return Config{}, err
		}
		if cfg.APIKey == "" {
			return Config{}, ErrMissingAPIKey
		}
		return cfg, nil
	case SourceLegacy:
		if len(src.Legacy) == 0 {
			return Config{}, ErrNoConfig
		}
		cfg := Config{
			APIKey:         src.Legacy[AttrAgentID],
			Position:       NormalizePosition(src.Legacy[AttrPosition]),
			Color:          src.Legacy[AttrColor],
			WelcomeMessage: src.Legacy[AttrWelcome],
			PlatformID:     src.Legacy[AttrPlatformID],
		}.Normalize()
		if cfg.APIKey == "" {
			return Config{}, ErrMissingAPIKey
		}
		return cfg, nil
	default:
		return Config{}, ErrNoConfig
	}
}

// SourceFromAttributes classifies a script tag's attributes into a Source.
// The encoded attribute wins when both forms are present.
func SourceFromAttributes(attrs map[string]string) Source {
	if payload := attrs[AttrConfig]; payload != "" {
		return Source{Kind: SourceEncoded, Payload: payload}
	}
	if _, ok := attrs[AttrAgentID]; ok {
		return Source{Kind: SourceLegacy, Legacy: attrs}
	}
	return Source{}
}
