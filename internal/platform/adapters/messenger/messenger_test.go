package messenger

import (
	"testing"

	"github.com/agenthubhq/agenthub/internal/widget"
)

func TestBuildDeepLink(t *testing.T) {
	t.Parallel()

	adapter := New()
	if got, _ := adapter.BuildDeepLink(widget.Config{PlatformID: " acme.support "}); got != "https://m.me/acme.support" {
		t.Fatalf("got %q", got)
	}
	if got, _ := adapter.BuildDeepLink(widget.Config{}); got != fallbackURL {
		t.Fatalf("fallback: got %q", got)
	}
}
