package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/agenthubhq/agenthub/internal/widget"
)

// DefaultBeaconTimeout bounds a beacon request end to end.
const DefaultBeaconTimeout = 2 * time.Second

// Beacon posts interaction events to a tracking endpoint, fire and
// forget. Every failure mode (non-2xx, timeout, connection refused) is
// swallowed: losing an event is an accepted tradeoff against adding
// latency or failure risk to the user-facing hand-off.
type Beacon struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewBeacon creates a beacon client for the given endpoint. A zero
// timeout falls back to DefaultBeaconTimeout.
func NewBeacon(log *slog.Logger, endpoint string, timeout time.Duration) *Beacon {
	if timeout <= 0 {
		timeout = DefaultBeaconTimeout
	}
	return &Beacon{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   log.With(slog.String("component", "beacon")),
	}
}

// Send delivers one event. It never returns an error; outcomes beyond a
// debug log are intentionally invisible to callers.
func (b *Beacon) Send(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		b.logger.Debug("encode event failed", slog.Any("error", err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		b.logger.Debug("build request failed", slog.Any("error", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Debug("beacon failed", slog.Any("error", err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		b.logger.Debug("beacon rejected", slog.Int("status", resp.StatusCode))
	}
}

// Track adapts the beacon to the widget controller's tracker callback.
func (b *Beacon) Track(ctx context.Context, cfg widget.Config, action string) {
	b.Send(ctx, Event{
		APIKey:    cfg.APIKey,
		Platform:  cfg.Platform,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
}
