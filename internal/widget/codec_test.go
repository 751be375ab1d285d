package widget

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	in := Config{
		APIKey:         "agt_0123456789abcdef0123456789abcdef",
		Platform:       "whatsapp",
		Position:       PositionBottomLeft,
		Color:          "#25D366",
		WelcomeMessage: "Hi there! How can we help?",
		PlatformID:     "15551234567",
	}
	payload, err := EncodePayload(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodePayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestEncodePayloadRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := EncodePayload(Config{Platform: "telegram"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestDecodePayloadFailsClosed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
	}{
		{name: "not base64", payload: "!!!not-base64!!!"},
		{name: "base64 but not json", payload: base64.StdEncoding.EncodeToString([]byte("<html>"))},
		{name: "truncated json", payload: base64.StdEncoding.EncodeToString([]byte(`{"apiKey":"agt_x`))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodePayload(tc.payload); !errors.Is(err, ErrDecodeConfig) {
				t.Fatalf("want ErrDecodeConfig, got %v", err)
			}
		})
	}
}

func TestResolveEncoded(t *testing.T) {
	t.Parallel()

	payload, err := EncodePayload(Config{APIKey: "agt_abc", Platform: "telegram"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cfg, err := Resolve(Source{Kind: SourceEncoded, Payload: payload})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.APIKey != "agt_abc" || cfg.Platform != "telegram" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// A corrupt payload must not degrade into a partial widget.
	if _, err := Resolve(Source{Kind: SourceEncoded, Payload: "garbage"}); !errors.Is(err, ErrDecodeConfig) {
		t.Fatalf("want ErrDecodeConfig, got %v", err)
	}
	if _, err := Resolve(Source{Kind: SourceEncoded}); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("want ErrNoConfig, got %v", err)
	}
}

func TestResolveLegacyDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Source{Kind: SourceLegacy, Legacy: map[string]string{
		AttrAgentID: "agt_abc",
	}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Position != DefaultPosition {
		t.Fatalf("want default position, got %q", cfg.Position)
	}
	if cfg.Color != "" || cfg.WelcomeMessage != "" {
		t.Fatalf("optional fields should stay empty: %+v", cfg)
	}

	if _, err := Resolve(Source{Kind: SourceLegacy, Legacy: map[string]string{
		AttrColor: "#fff",
	}}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestSourceFromAttributesEncodedWins(t *testing.T) {
	t.Parallel()

	src := SourceFromAttributes(map[string]string{
		AttrConfig:  "cGF5bG9hZA==",
		AttrAgentID: "agt_abc",
	})
	if src.Kind != SourceEncoded {
		t.Fatalf("want encoded source, got %q", src.Kind)
	}

	src = SourceFromAttributes(map[string]string{AttrAgentID: "agt_abc"})
	if src.Kind != SourceLegacy {
		t.Fatalf("want legacy source, got %q", src.Kind)
	}

	src = SourceFromAttributes(map[string]string{"data-unrelated": "x"})
	if src.Kind != "" {
		t.Fatalf("want empty source, got %q", src.Kind)
	}
}

func TestNormalizePosition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Position
	}{
		{raw: "bottom-right", want: PositionBottomRight},
		{raw: "TOP-LEFT", want: PositionTopLeft},
		{raw: " bottom-left ", want: PositionBottomLeft},
		{raw: "middle", want: DefaultPosition},
		{raw: "", want: DefaultPosition},
	}
	for _, tc := range cases {
		if got := NormalizePosition(tc.raw); got != tc.want {
			t.Fatalf("NormalizePosition(%q)=%q want %q", tc.raw, got, tc.want)
		}
	}
}
