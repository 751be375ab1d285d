package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type staticLinker struct {
	link string
	err  error
}

func (l staticLinker) BuildDeepLink(Config) (string, error) {
	return l.link, l.err
}

func TestNewControllerRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewController(Config{}, staticLinker{link: "https://wa.me/"}, nil)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got %v", err)
	}
}

func TestShowBubbleIdempotent(t *testing.T) {
	t.Parallel()

	c, err := NewController(Config{APIKey: "agt_abc", WelcomeMessage: "hello"}, staticLinker{}, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if !c.ShowBubble() {
		t.Fatal("first ShowBubble should show")
	}
	if c.ShowBubble() {
		t.Fatal("second ShowBubble should be a no-op while visible")
	}
	if !c.BubbleVisible() {
		t.Fatal("bubble should be visible")
	}
	c.DismissBubble()
	if c.BubbleVisible() {
		t.Fatal("bubble should be gone after dismiss")
	}
	if !c.ShowBubble() {
		t.Fatal("ShowBubble should work again after dismiss")
	}
}

func TestShowBubbleWithoutWelcomeMessage(t *testing.T) {
	t.Parallel()

	c, err := NewController(Config{APIKey: "agt_abc"}, staticLinker{}, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if c.ShowBubble() {
		t.Fatal("no welcome message means no bubble")
	}
}

func TestRenderStateColorFallback(t *testing.T) {
	t.Parallel()

	c, err := NewController(Config{APIKey: "agt_abc"}, staticLinker{}, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	state := c.RenderState("#0088CC")
	if state.Color != "#0088CC" {
		t.Fatalf("want brand color fallback, got %q", state.Color)
	}
	if state.Position != DefaultPosition {
		t.Fatalf("want default position, got %q", state.Position)
	}

	c, _ = NewController(Config{APIKey: "agt_abc", Color: "#123456"}, staticLinker{}, nil)
	if state := c.RenderState("#0088CC"); state.Color != "#123456" {
		t.Fatalf("configured color should win, got %q", state.Color)
	}
}

func TestClickReturnsLinkAndTracksAsync(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		actions []string
	)
	done := make(chan struct{})
	track := func(_ context.Context, _ Config, action string) {
		mu.Lock()
		actions = append(actions, action)
		mu.Unlock()
		close(done)
	}
	c, err := NewController(Config{APIKey: "agt_abc"}, staticLinker{link: "https://t.me/example"}, track)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	link, err := c.Click(context.Background())
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if link != "https://t.me/example" {
		t.Fatalf("unexpected link %q", link)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("track was never called")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(actions) != 1 || actions[0] != ActionClick {
		t.Fatalf("unexpected actions %v", actions)
	}
}

func TestClickSurvivesSlowTracker(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	track := func(context.Context, Config, string) {
		<-block
	}
	c, err := NewController(Config{APIKey: "agt_abc"}, staticLinker{link: "https://m.me/page"}, track)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	start := time.Now()
	if _, err := c.Click(context.Background()); err != nil {
		t.Fatalf("click: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("click blocked on tracker for %v", elapsed)
	}
	close(block)
}

func TestClickPropagatesLinkError(t *testing.T) {
	t.Parallel()

	c, err := NewController(Config{APIKey: "agt_abc"}, staticLinker{err: errors.New("boom")}, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if _, err := c.Click(context.Background()); err == nil {
		t.Fatal("want link error")
	}
}
