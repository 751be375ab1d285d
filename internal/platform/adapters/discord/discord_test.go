package discord

import (
	"testing"

	"github.com/agenthubhq/agenthub/internal/widget"
)

func TestBuildDeepLink(t *testing.T) {
	t.Parallel()

	adapter := New()
	cases := []struct {
		name string
		cfg  widget.Config
		want string
	}{
		{
			name: "guild and channel ids",
			cfg:  widget.Config{PlatformID: "123456789012345678/987654321098765432"},
			want: "https://discord.com/channels/123456789012345678/987654321098765432",
		},
		{
			name: "guild id only",
			cfg:  widget.Config{PlatformID: "123456789012345678"},
			want: "https://discord.com/channels/123456789012345678",
		},
		{
			name: "invite code",
			cfg:  widget.Config{PlatformID: "agenthub"},
			want: "https://discord.gg/agenthub",
		},
		{
			name: "empty identifier falls back",
			cfg:  widget.Config{},
			want: "https://discord.com/",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := adapter.BuildDeepLink(tc.cfg)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestIsSnowflakePath(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"123":         true,
		"123/456":     true,
		"123/456/789": false,
		"123/":        false,
		"/456":        false,
		"abc":         false,
		"123/abc":     false,
	}
	for id, want := range cases {
		if got := isSnowflakePath(id); got != want {
			t.Fatalf("isSnowflakePath(%q) = %v, want %v", id, got, want)
		}
	}
}
