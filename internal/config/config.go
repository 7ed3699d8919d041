package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains runtime configuration required by the service.
// All values are read once at process start; nothing in the request
// path touches the environment.
type Config struct {
	DBURL      string `env:"DB_URL,required,notEmpty"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Env gates drain ingestion: drains are live only in production,
	// unless DrainsEnabled forces them on (local testing against a
	// real exporter).
	Env           string `env:"APP_ENV" envDefault:"development"`
	DrainsEnabled bool   `env:"DRAINS_ENABLED"`

	// Per-drain shared secrets for HMAC signature verification.
	// An empty secret disables that drain (404, same as a missing route).
	MetricsSecret string `env:"DRAIN_METRICS_SECRET"`
	TracesSecret  string `env:"DRAIN_TRACES_SECRET"`

	// DrainToken, when set, must be echoed by the exporter in the
	// x-drain-token header on every delivery.
	DrainToken string `env:"DRAIN_AUTH_TOKEN"`

	MaxBodyBytes int64 `env:"DRAIN_MAX_BODY_BYTES" envDefault:"5000000"`
	BatchSize    int   `env:"DRAIN_BATCH_SIZE" envDefault:"500"`
}

// Load reads required values from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("DRAIN_BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("DRAIN_MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}

// IngestionEnabled reports whether the drain endpoints accept traffic.
func (c Config) IngestionEnabled() bool {
	return c.Env == "production" || c.DrainsEnabled
}
