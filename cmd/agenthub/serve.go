package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/agenthubhq/agenthub/internal/accounts"
	"github.com/agenthubhq/agenthub/internal/agents"
	"github.com/agenthubhq/agenthub/internal/analytics"
	"github.com/agenthubhq/agenthub/internal/cache"
	"github.com/agenthubhq/agenthub/internal/config"
	"github.com/agenthubhq/agenthub/internal/connect"
	"github.com/agenthubhq/agenthub/internal/db"
	"github.com/agenthubhq/agenthub/internal/handlers"
	"github.com/agenthubhq/agenthub/internal/logger"
	"github.com/agenthubhq/agenthub/internal/platform"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/discord"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/instagram"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/line"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/messenger"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/telegram"
	"github.com/agenthubhq/agenthub/internal/platform/adapters/whatsapp"
	"github.com/agenthubhq/agenthub/internal/server"
	"github.com/agenthubhq/agenthub/internal/tracking"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,
			provideRedisClient,
			provideWidgetCache,
			provideRegistry,
			accounts.NewService,
			agents.NewService,
			tracking.NewService,
			analytics.NewService,
			provideRollup,
			provideBeacon,
			provideConnectManager,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(provideAgentsHandler),
			provideServerHandler(provideWidgetHandler),
			provideServerHandler(provideTrackingHandler),
			provideServerHandler(handlers.NewAnalyticsHandler),
			provideServerHandler(providePlatformsHandler),
			provideServer,
		),
		fx.Invoke(
			startRollup,
			startConnectManager,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	return loadConfig()
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

// provideRedisClient returns a nil client when redis is unreachable;
// the widget cache treats that as caching disabled.
func provideRedisClient(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) *redis.Client {
	client, err := cache.Open(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, widget config caching disabled",
			slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))
		return nil
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return client.Close() }})
	return client
}

func provideWidgetCache(log *slog.Logger, client *redis.Client, cfg config.Config) *cache.WidgetConfigs {
	ttl := time.Duration(cfg.Redis.ConfigTTLSeconds) * time.Second
	return cache.NewWidgetConfigs(log, client, ttl)
}

func provideRegistry() *platform.Registry {
	registry := platform.NewRegistry()
	registry.MustRegister(whatsapp.New())
	registry.MustRegister(telegram.New())
	registry.MustRegister(messenger.New())
	registry.MustRegister(instagram.New())
	registry.MustRegister(discord.New())
	registry.MustRegister(line.New())
	return registry
}

func provideRollup(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *analytics.Rollup {
	return analytics.NewRollup(log, pool, cfg.Widget.RollupSpec)
}

// provideConnectManager returns nil when live bot sessions are
// disabled; handlers treat a nil manager as a no-op.
func provideConnectManager(log *slog.Logger, agentService *agents.Service, cfg config.Config) *connect.Manager {
	if !cfg.Connect.Enabled {
		return nil
	}
	manager := connect.NewManager(log, agentService, connect.NewWelcomeResponder())
	manager.RegisterReceiver(connect.NewTelegramReceiver(log))
	manager.RegisterReceiver(connect.NewDiscordReceiver(log))
	return manager
}

// provideBeacon points the preview path at this deployment's own ingest
// endpoint, so previews travel the same public route real pages use.
func provideBeacon(log *slog.Logger, cfg config.Config) *tracking.Beacon {
	endpoint := strings.TrimRight(cfg.Server.PublicURL, "/") + "/api/widget-interaction"
	timeout := time.Duration(cfg.Widget.TrackTimeoutSeconds) * time.Second
	return tracking.NewBeacon(log, endpoint, timeout)
}

func provideAuthHandler(log *slog.Logger, accountService *accounts.Service, cfg config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, accountService, cfg.Auth)
}

func provideAgentsHandler(log *slog.Logger, agentService *agents.Service, configs *cache.WidgetConfigs, manager *connect.Manager, registry *platform.Registry, beacon *tracking.Beacon, cfg config.Config) *handlers.AgentsHandler {
	return handlers.NewAgentsHandler(log, agentService, configs, manager, registry, beacon, cfg.Server.PublicURL)
}

func provideWidgetHandler(log *slog.Logger, agentService *agents.Service, registry *platform.Registry, configs *cache.WidgetConfigs, trackingService *tracking.Service, cfg config.Config) *handlers.WidgetHandler {
	return handlers.NewWidgetHandler(log, agentService, registry, configs, trackingService, cfg.Server.PublicURL)
}

func provideTrackingHandler(log *slog.Logger, trackingService *tracking.Service) *handlers.TrackingHandler {
	return handlers.NewTrackingHandler(log, trackingService)
}

func providePlatformsHandler(log *slog.Logger, registry *platform.Registry, manager *connect.Manager) *handlers.PlatformsHandler {
	return handlers.NewPlatformsHandler(log, registry, manager)
}

type serverParams struct {
	fx.In
	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr,
		params.Config.Auth.JWTSecret, params.ServerHandlers)
}

func startRollup(lc fx.Lifecycle, rollup *analytics.Rollup) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return rollup.Start(ctx) },
		OnStop:  func(ctx context.Context) error { rollup.Stop(); return nil },
	})
}

func startConnectManager(lc fx.Lifecycle, manager *connect.Manager) {
	if manager == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go manager.Start(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			manager.StopAll(stopCtx)
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, cfg config.Config, accountService *accounts.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Migrate(log, cfg.Postgres); err != nil {
				return err
			}
			if _, err := accountService.EnsureAdmin(ctx, cfg.Admin); err != nil {
				return fmt.Errorf("ensure admin account: %w", err)
			}
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
