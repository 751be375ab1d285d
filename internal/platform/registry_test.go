package platform

import (
	"testing"

	"github.com/agenthubhq/agenthub/internal/widget"
)

type fakeAdapter struct {
	t Type
}

func (f fakeAdapter) Type() Type {
	return f.t
}

func (f fakeAdapter) Descriptor() Descriptor {
	return Descriptor{Type: f.t, DisplayName: f.t.String()}
}

func (f fakeAdapter) BuildDeepLink(widget.Config) (string, error) {
	return "https://example.com/" + f.t.String(), nil
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(fakeAdapter{t: "telegram"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(fakeAdapter{t: "Telegram"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := r.Register(fakeAdapter{t: "  "}); err == nil {
		t.Fatal("expected empty type to fail")
	}
	if err := r.Register(nil); err == nil {
		t.Fatal("expected nil adapter to fail")
	}
}

func TestRegistryGetNormalizesType(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister(fakeAdapter{t: "whatsapp"})

	if _, ok := r.Get("WhatsApp "); !ok {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if _, ok := r.Get("signal"); ok {
		t.Fatal("expected unknown platform to miss")
	}
}

func TestRegistryParseType(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister(fakeAdapter{t: "line"})

	got, err := r.ParseType(" LINE ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "line" {
		t.Fatalf("got %q", got)
	}
	if _, err := r.ParseType(""); err == nil {
		t.Fatal("expected empty slug to fail")
	}
	if _, err := r.ParseType("irc"); err == nil {
		t.Fatal("expected unknown slug to fail")
	}
}

func TestRegistryListOrdered(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister(fakeAdapter{t: "whatsapp"})
	r.MustRegister(fakeAdapter{t: "discord"})
	r.MustRegister(fakeAdapter{t: "line"})

	want := []Type{"discord", "line", "whatsapp"}
	got := r.Types()
	if len(got) != len(want) {
		t.Fatalf("got %d types, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
