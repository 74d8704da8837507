package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies WYBE_* environment variable overrides, and
// returns the final Config. A missing file is not an error; defaults
// plus environment overrides apply. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known WYBE_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
// This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.Server.Port, "WYBE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "WYBE_SERVER_CORS_ORIGINS")

	setStr(&cfg.Postgres.DSN, "WYBE_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "WYBE_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "WYBE_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "WYBE_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "WYBE_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "WYBE_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "WYBE_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "WYBE_POSTGRES_POOL_MAX_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "WYBE_POSTGRES_RUN_MIGRATIONS")

	setBool(&cfg.Clickhouse.Enabled, "WYBE_CLICKHOUSE_ENABLED")
	setStr(&cfg.Clickhouse.DSN, "WYBE_CLICKHOUSE_DSN")

	setBool(&cfg.Redis.Enabled, "WYBE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "WYBE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "WYBE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "WYBE_REDIS_DB")

	setDuration(&cfg.Trading.LockTTL, "WYBE_TRADING_LOCK_TTL")
	setDuration(&cfg.Distribution.Interval, "WYBE_DISTRIBUTION_INTERVAL")

	setStr(&cfg.Storage, "WYBE_STORAGE")
	setStr(&cfg.LogLevel, "WYBE_LOG_LEVEL")
}

// Typed env-var helpers. Each only mutates the target when the
// environment variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
