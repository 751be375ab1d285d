// Package cache keeps resolved widget configurations in redis so the
// public widget endpoints do not hit postgres on every page load.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agenthubhq/agenthub/internal/config"
	"github.com/agenthubhq/agenthub/internal/widget"
)

const keyPrefix = "widget:"

// Open connects a redis client and verifies it with a ping.
func Open(cfg config.RedisConfig) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, err
	}
	return cli, nil
}

// WidgetConfigs caches widget configurations keyed by agent api key.
// Cache failures always degrade to database reads; nothing here is
// load-bearing for correctness.
type WidgetConfigs struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewWidgetConfigs creates the cache wrapper. A nil client disables
// caching entirely.
func NewWidgetConfigs(log *slog.Logger, client *redis.Client, ttl time.Duration) *WidgetConfigs {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WidgetConfigs{
		client: client,
		ttl:    ttl,
		logger: log.With(slog.String("component", "widget_cache")),
	}
}

// Get returns the cached configuration for an api key, if present.
func (c *WidgetConfigs) Get(ctx context.Context, apiKey string) (widget.Config, bool) {
	if c == nil || c.client == nil || apiKey == "" {
		return widget.Config{}, false
	}
	raw, err := c.client.Get(ctx, keyPrefix+apiKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("cache get failed", slog.Any("error", err))
		}
		return widget.Config{}, false
	}
	var cfg widget.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		c.logger.Debug("cache entry malformed", slog.Any("error", err))
		return widget.Config{}, false
	}
	return cfg, true
}

// Set stores a resolved configuration under its api key.
func (c *WidgetConfigs) Set(ctx context.Context, cfg widget.Config) {
	if c == nil || c.client == nil || cfg.APIKey == "" {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+cfg.APIKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", slog.Any("error", err))
	}
}

// Invalidate drops the cached configuration for an api key. Called after
// agent updates and key regenerations.
func (c *WidgetConfigs) Invalidate(ctx context.Context, apiKeys ...string) {
	if c == nil || c.client == nil {
		return
	}
	for _, apiKey := range apiKeys {
		if apiKey == "" {
			continue
		}
		if err := c.client.Del(ctx, keyPrefix+apiKey).Err(); err != nil {
			c.logger.Debug("cache invalidate failed", slog.Any("error", err))
		}
	}
}
