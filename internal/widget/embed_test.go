package widget

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildEmbedCodes(t *testing.T) {
	t.Parallel()

	codes, err := BuildEmbedCodes(Config{
		APIKey:         "agt_abc",
		Platform:       "whatsapp",
		Position:       PositionTopRight,
		Color:          "#25D366",
		WelcomeMessage: `Say "hi"`,
		PlatformID:     "15551234567",
	}, "https://widgets.example.com/")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, want := range []string{
		`src="https://widgets.example.com/widget/whatsapp-widget.js"`,
		`data-agent-id="agt_abc"`,
		`data-position="top-right"`,
		`data-color="#25D366"`,
		`data-platform-id="15551234567"`,
		`data-welcome-msg="Say &#34;hi&#34;"`,
		` async>`,
	} {
		if !strings.Contains(codes.Legacy, want) {
			t.Fatalf("legacy snippet missing %q:\n%s", want, codes.Legacy)
		}
	}
	if !strings.Contains(codes.Encoded, "data-agent-config=") {
		t.Fatalf("encoded snippet missing config attribute:\n%s", codes.Encoded)
	}
	if strings.Contains(codes.Encoded, "data-agent-id=") {
		t.Fatalf("encoded snippet should not carry legacy attributes:\n%s", codes.Encoded)
	}
}

func TestBuildEmbedCodesOmitsEmptyAttrs(t *testing.T) {
	t.Parallel()

	codes, err := BuildEmbedCodes(Config{APIKey: "agt_abc", Platform: "telegram"}, "http://localhost:8080")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, unwanted := range []string{"data-color", "data-welcome-msg", "data-platform-id"} {
		if strings.Contains(codes.Legacy, unwanted) {
			t.Fatalf("legacy snippet should omit %q:\n%s", unwanted, codes.Legacy)
		}
	}
}

func TestBuildEmbedCodesRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := BuildEmbedCodes(Config{Platform: "whatsapp"}, "http://localhost:8080")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestBuildEmbedCodesRoundTripsThroughDecode(t *testing.T) {
	t.Parallel()

	in := Config{APIKey: "agt_abc", Platform: "line", PlatformID: "@example"}
	codes, err := BuildEmbedCodes(in, "http://localhost:8080")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	start := strings.Index(codes.Encoded, `data-agent-config="`)
	if start < 0 {
		t.Fatalf("no config attribute:\n%s", codes.Encoded)
	}
	start += len(`data-agent-config="`)
	end := strings.Index(codes.Encoded[start:], `"`)
	cfg, err := DecodePayload(codes.Encoded[start : start+end])
	if err != nil {
		t.Fatalf("decode embedded payload: %v", err)
	}
	if cfg.APIKey != in.APIKey || cfg.PlatformID != in.PlatformID {
		t.Fatalf("embedded payload mismatch: %+v", cfg)
	}
}
