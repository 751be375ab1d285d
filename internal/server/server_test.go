package server

import "testing"

func TestShouldSkipJWT_PublicWidgetPaths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want bool
	}{
		{path: "/ping", want: true},
		{path: "/auth/login", want: true},
		{path: "/widget/whatsapp-widget.js", want: true},
		{path: "/w/telegram", want: true},
		{path: "/api/widget-interaction", want: true},
		{path: "/api/widget-config", want: true},
		{path: "/agents", want: false},
		{path: "/agents/abc/embed-code", want: false},
		{path: "/connections", want: false},
	}

	for _, tc := range cases {
		got := shouldSkipJWT(tc.path)
		if got != tc.want {
			t.Fatalf("path=%q want=%v got=%v", tc.path, tc.want, got)
		}
	}
}
