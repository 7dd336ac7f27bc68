// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables. An empty variable
// falls back to its default.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// LogLevel is the minimum log level: debug, info, warn or error.
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// LogFile, when set, sends logs to a size-rotated file instead of stdout.
	LogFile string `env:"LOG_FILE"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// JWTSecret signs and verifies owner bearer tokens. Required.
	JWTSecret string `env:"JWT_SECRET,notEmpty"`

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"72h"`

	// RedisURL enables the catalog read-through cache. Empty disables it.
	RedisURL string `env:"REDIS_URL"`

	// CatalogCacheTTL is how long cached cities and activities live.
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`
}

// Load reads configuration from environment variables and returns a Config.
// The error names every required variable that is missing.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
