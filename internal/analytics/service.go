package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenthubhq/agenthub/internal/db"
)

const maxRecentLimit = 500

// InteractionEvent is one recorded widget interaction, dashboard view.
type InteractionEvent struct {
	Platform   string         `json:"platform"`
	Action     string         `json:"action"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// DailyCount is one aggregated bucket from the rollup table.
type DailyCount struct {
	Day      time.Time `json:"day"`
	Platform string    `json:"platform"`
	Action   string    `json:"action"`
	Count    int64     `json:"count"`
}

// Service serves dashboard analytics queries over the interaction tables.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates an analytics service.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "analytics")),
	}
}

// Recent lists the latest raw interactions for one owned agent. The
// limit is clamped to a sane ceiling so a dashboard cannot drag the
// whole history over the wire.
func (s *Service) Recent(ctx context.Context, ownerUserID, agentID string, limit int) ([]InteractionEvent, error) {
	if limit <= 0 || limit > maxRecentLimit {
		limit = 100
	}
	ownerID, err := db.ParseUUID(ownerUserID)
	if err != nil {
		return nil, err
	}
	id, err := db.ParseUUID(agentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT wi.platform, wi.action, wi.metadata, wi.occurred_at
		FROM widget_interactions wi
		JOIN agents a ON a.id = wi.agent_id
		WHERE wi.agent_id = $1 AND a.owner_user_id = $2
		ORDER BY wi.occurred_at DESC
		LIMIT $3`, id, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []InteractionEvent{}
	for rows.Next() {
		var (
			event InteractionEvent
			raw   []byte
		)
		if err := rows.Scan(&event.Platform, &event.Action, &raw, &event.OccurredAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &event.Metadata); err != nil {
				s.logger.Warn("malformed event metadata", slog.Any("error", err))
			}
		}
		items = append(items, event)
	}
	return items, rows.Err()
}

// DailySeries returns the rolled-up per-day counts for one owned agent
// over the trailing number of days.
func (s *Service) DailySeries(ctx context.Context, ownerUserID, agentID string, days int) ([]DailyCount, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	ownerID, err := db.ParseUUID(ownerUserID)
	if err != nil {
		return nil, err
	}
	id, err := db.ParseUUID(agentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT d.day, d.platform, d.action, d.count
		FROM widget_interaction_daily d
		JOIN agents a ON a.id = d.agent_id
		WHERE d.agent_id = $1 AND a.owner_user_id = $2
			AND d.day >= (current_date - $3::int)
		ORDER BY d.day, d.platform, d.action`, id, ownerID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []DailyCount{}
	for rows.Next() {
		var bucket DailyCount
		if err := rows.Scan(&bucket.Day, &bucket.Platform, &bucket.Action, &bucket.Count); err != nil {
			return nil, err
		}
		items = append(items, bucket)
	}
	return items, rows.Err()
}
