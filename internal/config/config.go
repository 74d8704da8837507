// Package config defines the engine configuration and validation
// helpers.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from
// a TOML file and then optionally overridden by WYBE_* environment
// variables.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Postgres     PostgresConfig     `toml:"postgres"`
	Clickhouse   ClickhouseConfig   `toml:"clickhouse"`
	Redis        RedisConfig        `toml:"redis"`
	Trading      TradingConfig      `toml:"trading"`
	Distribution DistributionConfig `toml:"distribution"`
	Storage      string             `toml:"storage"` // "memory" | "postgres"
	LogLevel     string             `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// PostgresConfig holds PostgreSQL connection parameters. DSN, when set,
// takes precedence over the discrete fields.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// ClickhouseConfig holds ClickHouse connection parameters for the price
// timeseries. Disabled means price history is kept in process memory.
type ClickhouseConfig struct {
	Enabled bool   `toml:"enabled"`
	DSN     string `toml:"dsn"`
}

// RedisConfig holds Redis connection parameters for the per-token trade
// lock. Disabled means an in-process lock table is used instead.
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TradingConfig holds trade execution parameters.
type TradingConfig struct {
	LockTTL duration `toml:"lock_ttl"`
}

// DistributionConfig holds claim processor parameters.
type DistributionConfig struct {
	Interval duration `toml:"interval"`
}

type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder
// can parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ConnString returns the PostgreSQL connection string, assembling one
// from the discrete fields when no explicit DSN is configured.
func (p PostgresConfig) ConnString() string {
	if strings.TrimSpace(p.DSN) != "" {
		return p.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode, p.PoolMaxConns)
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "wybe",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			RunMigrations: true,
		},
		Clickhouse: ClickhouseConfig{
			Enabled: false,
			DSN:     "clickhouse://localhost:9000/wybe",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Trading: TradingConfig{
			LockTTL: duration{10 * time.Second},
		},
		Distribution: DistributionConfig{
			Interval: duration{1 * time.Minute},
		},
		Storage:  "memory",
		LogLevel: "info",
	}
}

// validStorageBackends enumerates the accepted values for Config.Storage.
var validStorageBackends = map[string]bool{
	"memory":   true,
	"postgres": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and
// returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validStorageBackends[strings.ToLower(c.Storage)] {
		errs = append(errs, fmt.Sprintf("unknown storage %q (valid: memory, postgres)", c.Storage))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	if strings.ToLower(c.Storage) == "postgres" && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}

	if c.Clickhouse.Enabled && strings.TrimSpace(c.Clickhouse.DSN) == "" {
		errs = append(errs, "clickhouse: dsn must not be empty when enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when enabled")
	}

	if c.Trading.LockTTL.Duration <= 0 {
		errs = append(errs, "trading: lock_ttl must be positive")
	}
	if c.Distribution.Interval.Duration <= 0 {
		errs = append(errs, "distribution: interval must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SlogLevel maps LogLevel to its slog representation. Unknown values
// map to Info; Validate rejects them separately.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
