// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config holds runtime configuration for the service.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	Addr            string        `envconfig:"APP_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"APP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"5s"`

	LogDevelopment   bool `envconfig:"LOG_DEVELOPMENT" default:"false"`
	TelemetryEnabled bool `envconfig:"TELEMETRY_ENABLED" default:"true"`
	// TraceSampleRatio is the share of root spans kept, from 0 to 1.
	TraceSampleRatio float64 `envconfig:"TRACE_SAMPLE_RATIO" default:"1"`

	// MaxMagnitude bounds every numeric input; zero disables the bound.
	MaxMagnitude decimal.Decimal `envconfig:"TAX_MAX_MAGNITUDE" default:"1000000000000000"`
	// RateLimit is the number of /tax requests allowed per client IP and
	// minute; zero disables limiting.
	RateLimit int `envconfig:"TAX_RATE_LIMIT" default:"600"`
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.MaxMagnitude.IsNegative() {
		return nil, errors.New("TAX_MAX_MAGNITUDE must not be negative")
	}
	if cfg.TraceSampleRatio < 0 || cfg.TraceSampleRatio > 1 {
		return nil, errors.New("TRACE_SAMPLE_RATIO must be between 0 and 1")
	}
	if cfg.RateLimit < 0 {
		return nil, errors.New("TAX_RATE_LIMIT must not be negative")
	}
	return &cfg, nil
}

// LoadDotEnv loads environment variables from the given files, or .env,
// when present. Existing process environment variables are not overridden.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// IsProduction returns true when the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
