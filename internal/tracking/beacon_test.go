package tracking

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agenthubhq/agenthub/internal/widget"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBeaconSend(t *testing.T) {
	t.Parallel()

	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		var ev Event
		if err := json.Unmarshal(body, &ev); err != nil {
			t.Errorf("decode: %v", err)
		}
		received <- ev
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	b := NewBeacon(testLogger(), srv.URL, time.Second)
	b.Send(context.Background(), Event{APIKey: "wgt_abc", Platform: "whatsapp", Action: widget.ActionClick})

	select {
	case ev := <-received:
		if ev.APIKey != "wgt_abc" || ev.Platform != "whatsapp" || ev.Action != widget.ActionClick {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.Timestamp.IsZero() {
			t.Fatal("timestamp was not defaulted")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("beacon never arrived")
	}
}

func TestBeaconSwallowsFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewBeacon(testLogger(), srv.URL, time.Second)
	// Neither a 5xx nor an unreachable endpoint may surface to callers.
	b.Send(context.Background(), Event{APIKey: "k", Platform: "line", Action: "impression"})

	unreachable := NewBeacon(testLogger(), "http://127.0.0.1:1", 200*time.Millisecond)
	unreachable.Send(context.Background(), Event{APIKey: "k", Platform: "line", Action: "impression"})
}

func TestBeaconTrackUsesConfigAttribution(t *testing.T) {
	t.Parallel()

	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		received <- ev
	}))
	defer srv.Close()

	b := NewBeacon(testLogger(), srv.URL, time.Second)
	b.Track(context.Background(), widget.Config{APIKey: "wgt_xyz", Platform: "telegram"}, widget.ActionClick)

	select {
	case ev := <-received:
		if ev.APIKey != "wgt_xyz" || ev.Platform != "telegram" {
			t.Fatalf("unexpected attribution: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("beacon never arrived")
	}
}
