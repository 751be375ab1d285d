package whatsapp

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
			name: "formatted number with text",
			cfg:  widget.Config{PlatformID: "+1 (555) 123-4567", WelcomeMessage: "Hi there"},
			want: "https://wa.me/15551234567?text=Hi%20there",
		},
		{
			name: "bare digits no text",
			cfg:  widget.Config{PlatformID: "4915112345678"},
			want: "https://wa.me/4915112345678",
		},
		{
			name: "no number falls back to homepage",
			cfg:  widget.Config{WelcomeMessage: "Hi"},
			want: "https://www.whatsapp.com/",
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
