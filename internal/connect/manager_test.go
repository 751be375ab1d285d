package connect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/platform"
)

type fakeLister struct {
	mu    sync.Mutex
	items []agents.Agent
	err   error
}

func (f *fakeLister) ListConnectable(context.Context) ([]agents.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]agents.Agent(nil), f.items...), f.err
}

func (f *fakeLister) set(items ...agents.Agent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

type fakeReceiver struct {
	platformType platform.Type

	mu       sync.Mutex
	connects int
	stops    int
	err      error
}

func (f *fakeReceiver) Platform() platform.Type {
	return f.platformType
}

func (f *fakeReceiver) Connect(_ context.Context, agent agents.Agent, _ Responder) (Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.connects++
	return NewConnection(agent, func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stops++
		return nil
	}), nil
}

func (f *fakeReceiver) counts() (connects, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.stops
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAgent(id string, updatedAt time.Time) agents.Agent {
	return agents.Agent{
		ID:               id,
		Name:             "Acme Support",
		Platform:         "telegram",
		TelegramBotToken: "123:abc",
		IsActive:         true,
		UpdatedAt:        updatedAt,
	}
}

func TestManagerStartConnectsListedAgents(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	lister.set(testAgent("a1", time.Now()), testAgent("a2", time.Now()))
	receiver := &fakeReceiver{platformType: "telegram"}

	m := NewManager(testLogger(), lister, NewWelcomeResponder())
	m.RegisterReceiver(receiver)
	m.Start(context.Background())

	connects, _ := receiver.counts()
	if connects != 2 {
		t.Fatalf("connects = %d, want 2", connects)
	}
	statuses := m.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	for _, st := range statuses {
		if !st.Running || st.Platform != "telegram" {
			t.Fatalf("unexpected status: %+v", st)
		}
	}
}

func TestManagerRefreshStopsRemovedAgents(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	lister.set(testAgent("a1", time.Now()), testAgent("a2", time.Now()))
	receiver := &fakeReceiver{platformType: "telegram"}

	m := NewManager(testLogger(), lister, NewWelcomeResponder())
	m.RegisterReceiver(receiver)
	m.Start(context.Background())

	lister.set(testAgent("a1", time.Now()))
	m.Refresh(context.Background())

	_, stops := receiver.counts()
	if stops != 1 {
		t.Fatalf("stops = %d, want 1", stops)
	}
	if got := len(m.Statuses()); got != 1 {
		t.Fatalf("statuses = %d, want 1", got)
	}
}

func TestManagerEnsureAgentReconnectsOnUpdate(t *testing.T) {
	t.Parallel()

	receiver := &fakeReceiver{platformType: "telegram"}
	m := NewManager(testLogger(), &fakeLister{}, NewWelcomeResponder())
	m.RegisterReceiver(receiver)

	agent := testAgent("a1", time.Now())
	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// Unchanged agent keeps its session.
	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	connects, stops := receiver.counts()
	if connects != 1 || stops != 0 {
		t.Fatalf("connects=%d stops=%d, want 1/0", connects, stops)
	}

	// A newer UpdatedAt forces a reconnect.
	agent.UpdatedAt = agent.UpdatedAt.Add(time.Minute)
	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure updated: %v", err)
	}
	connects, stops = receiver.counts()
	if connects != 2 || stops != 1 {
		t.Fatalf("connects=%d stops=%d, want 2/1", connects, stops)
	}
}

func TestManagerEnsureAgentStopsDeactivated(t *testing.T) {
	t.Parallel()

	receiver := &fakeReceiver{platformType: "telegram"}
	m := NewManager(testLogger(), &fakeLister{}, NewWelcomeResponder())
	m.RegisterReceiver(receiver)

	agent := testAgent("a1", time.Now())
	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	agent.IsActive = false
	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure inactive: %v", err)
	}
	_, stops := receiver.counts()
	if stops != 1 {
		t.Fatalf("stops = %d, want 1", stops)
	}
	if got := len(m.Statuses()); got != 0 {
		t.Fatalf("statuses = %d, want 0", got)
	}
}

func TestManagerEnsureAgentWithoutCredentials(t *testing.T) {
	t.Parallel()

	receiver := &fakeReceiver{platformType: "telegram"}
	m := NewManager(testLogger(), &fakeLister{}, NewWelcomeResponder())
	m.RegisterReceiver(receiver)

	agent := testAgent("a1", time.Now())
	agent.TelegramBotToken = ""
	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	connects, _ := receiver.counts()
	if connects != 0 {
		t.Fatalf("connects = %d, want 0", connects)
	}
}

func TestManagerSkipsPlatformsWithoutReceiver(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger(), &fakeLister{}, NewWelcomeResponder())
	agent := testAgent("a1", time.Now())
	agent.Platform = "discord"
	agent.DiscordBotToken = "token"
	agent.TelegramBotToken = ""

	if err := m.EnsureAgent(context.Background(), agent); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got := len(m.Statuses()); got != 0 {
		t.Fatalf("statuses = %d, want 0", got)
	}
}

func TestManagerConnectFailureSurfacesError(t *testing.T) {
	t.Parallel()

	receiver := &fakeReceiver{platformType: "telegram", err: errors.New("unauthorized")}
	m := NewManager(testLogger(), &fakeLister{}, NewWelcomeResponder())
	m.RegisterReceiver(receiver)

	if err := m.EnsureAgent(context.Background(), testAgent("a1", time.Now())); err == nil {
		t.Fatal("expected connect failure to surface")
	}
}

func TestManagerStopAll(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	lister.set(testAgent("a1", time.Now()), testAgent("a2", time.Now()))
	receiver := &fakeReceiver{platformType: "telegram"}

	m := NewManager(testLogger(), lister, NewWelcomeResponder())
	m.RegisterReceiver(receiver)
	m.Start(context.Background())
	m.StopAll(context.Background())

	_, stops := receiver.counts()
	if stops != 2 {
		t.Fatalf("stops = %d, want 2", stops)
	}
	if got := len(m.Statuses()); got != 0 {
		t.Fatalf("statuses = %d, want 0", got)
	}
}

func TestWelcomeResponderFallbacks(t *testing.T) {
	t.Parallel()

	r := NewWelcomeResponder()
	msg, err := r.Reply(context.Background(), agents.Agent{WelcomeMessage: "Hi there"}, Inbound{})
	if err != nil || msg != "Hi there" {
		t.Fatalf("got %q, %v", msg, err)
	}
	msg, _ = r.Reply(context.Background(), agents.Agent{Name: "Acme Support"}, Inbound{})
	if msg != "Hi! You've reached Acme Support. We'll get back to you shortly." {
		t.Fatalf("got %q", msg)
	}
	msg, _ = r.Reply(context.Background(), agents.Agent{}, Inbound{})
	if msg == "" {
		t.Fatal("expected a generic greeting")
	}
}
