package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidEvent is returned for events missing required fields.
var ErrInvalidEvent = errors.New("tracking: event is missing required fields")

// Service persists widget interaction events.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a tracking service.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "tracking")),
	}
}

// Record stores one interaction event, attributed through the api key.
// Events referencing an unknown api key are dropped without error: the
// ingest endpoint must stay quiet toward third-party pages, and a stale
// key after a regeneration is an expected condition, not a fault.
func (s *Service) Record(ctx context.Context, event Event) error {
	event.APIKey = strings.TrimSpace(event.APIKey)
	event.Platform = strings.ToLower(strings.TrimSpace(event.Platform))
	event.Action = strings.TrimSpace(event.Action)
	if event.APIKey == "" || event.Platform == "" || event.Action == "" {
		return ErrInvalidEvent
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `INSERT INTO widget_interactions
			(agent_id, platform, action, metadata, occurred_at)
		SELECT id, $2, $3, $4::jsonb, $5 FROM agents WHERE api_key = $1`,
		event.APIKey, event.Platform, event.Action, string(metadataJSON), event.Timestamp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug("dropped event for unknown api key", slog.String("platform", event.Platform))
	}
	return nil
}
