package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// Rollup periodically aggregates raw widget interactions into the
// per-day table the dashboard charts read from. Re-running a window is
// safe: buckets are upserted with recomputed counts.
type Rollup struct {
	pool   *pgxpool.Pool
	spec   string
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRollup creates the rollup job with a cron spec such as "@hourly".
func NewRollup(log *slog.Logger, pool *pgxpool.Pool, spec string) *Rollup {
	if spec == "" {
		spec = "@hourly"
	}
	return &Rollup{
		pool:   pool,
		spec:   spec,
		logger: log.With(slog.String("component", "rollup")),
	}
}

// Start schedules the job and runs one pass immediately so a fresh
// deployment has data without waiting for the first tick.
func (r *Rollup) Start(ctx context.Context) error {
	if r.cron != nil {
		return fmt.Errorf("rollup already started")
	}
	c := cron.New()
	_, err := c.AddFunc(r.spec, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := r.Run(runCtx); err != nil {
			r.logger.Error("rollup failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("rollup schedule %q: %w", r.spec, err)
	}
	r.cron = c
	c.Start()
	go func() {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := r.Run(runCtx); err != nil {
			r.logger.Error("initial rollup failed", slog.Any("error", err))
		}
	}()
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Rollup) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.cron = nil
}

// Run recomputes the daily buckets touched in the trailing two days.
func (r *Rollup) Run(ctx context.Context) error {
	tag, err := r.pool.Exec(ctx, `INSERT INTO widget_interaction_daily
			(agent_id, day, platform, action, count)
		SELECT agent_id, occurred_at::date, platform, action, count(*)
		FROM widget_interactions
		WHERE occurred_at >= now() - interval '2 days'
		GROUP BY agent_id, occurred_at::date, platform, action
		ON CONFLICT (agent_id, day, platform, action)
			DO UPDATE SET count = EXCLUDED.count`)
	if err != nil {
		return err
	}
	r.logger.Debug("rollup pass complete", slog.Int64("buckets", tag.RowsAffected()))
	return nil
}
