package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath   = "config.toml"
	DefaultHTTPAddr     = ":8080"
	DefaultJWTExpiresIn = "24h"
	DefaultPGHost       = "127.0.0.1"
	DefaultPGPort       = 5432
	DefaultPGUser       = "postgres"
	DefaultPGDatabase   = "agenthub"
	DefaultPGSSLMode    = "disable"
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultPublicURL    = "http://localhost:8080"
	DefaultRollupSpec   = "@hourly"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Admin    AdminConfig    `toml:"admin"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	Widget   WidgetConfig   `toml:"widget"`
	Connect  ConnectConfig  `toml:"connect"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// PublicURL is the externally reachable base URL, used when embed
	// snippets and widget scripts reference backend endpoints.
	PublicURL string `toml:"public_url"`
}

type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Email    string `toml:"email"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// ConfigTTLSeconds bounds how stale a cached widget config may be.
	ConfigTTLSeconds int `toml:"config_ttl_seconds"`
}

type WidgetConfig struct {
	// RollupSpec is the cron spec for the interaction rollup job.
	RollupSpec string `toml:"rollup_spec"`
	// TrackTimeoutSeconds bounds the fire-and-forget tracking beacon.
	TrackTimeoutSeconds int `toml:"track_timeout_seconds"`
}

type ConnectConfig struct {
	// Enabled controls whether live bot connections are started for
	// agents that carry bot credentials.
	Enabled bool `toml:"enabled"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:      DefaultHTTPAddr,
			PublicURL: DefaultPublicURL,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "change-your-password-here",
			Email:    "you@example.com",
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Redis: RedisConfig{
			Addr:             DefaultRedisAddr,
			ConfigTTLSeconds: 300,
		},
		Widget: WidgetConfig{
			RollupSpec:          DefaultRollupSpec,
			TrackTimeoutSeconds: 2,
		},
		Connect: ConnectConfig{
			Enabled: true,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
