// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/toffan/running/internal/garmin"
)

// Config holds all application configuration
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	Garmin  GarminConfig
	Running RunningConfig

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Port      string `env:"PORT" envDefault:"8080"`
	APIToken  string `env:"API_TOKEN"` // enables plan scheduling on the preview server
}

// GarminConfig holds the connection to the workout platform
type GarminConfig struct {
	BaseURL     string        `env:"GARMIN_BASE_URL" envDefault:"https://connect.garmin.com"`
	TokenFile   string        `env:"GARMIN_TOKEN_FILE"`
	CookiesFile string        `env:"GARMIN_COOKIES_FILE"`
	Timeout     time.Duration `env:"GARMIN_TIMEOUT" envDefault:"30s"`
}

// RunningConfig holds local behaviour
type RunningConfig struct {
	SavePolicy string `env:"RUNNING_SAVE_POLICY" envDefault:"skip"`
	Targets    string `env:"RUNNING_TARGETS" envDefault:"suppress"`
	Ledger     string `env:"RUNNING_LEDGER" envDefault:"running.db"`
	CacheDir   string `env:"RUNNING_CACHE_DIR"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if _, err := c.DuplicatePolicy(); err != nil {
		return fmt.Errorf("invalid RUNNING_SAVE_POLICY: %w", err)
	}
	if _, err := c.RoleTargets(); err != nil {
		return fmt.Errorf("invalid RUNNING_TARGETS: %w", err)
	}
	if c.Garmin.Timeout <= 0 {
		return fmt.Errorf("GARMIN_TIMEOUT must be positive, got %s", c.Garmin.Timeout)
	}
	return nil
}

// Level returns the configured log level, warn when unparsable.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

func (c *Config) DuplicatePolicy() (garmin.DuplicatePolicy, error) {
	return garmin.ParseDuplicatePolicy(c.Running.SavePolicy)
}

func (c *Config) RoleTargets() (garmin.RoleTargets, error) {
	return garmin.ParseRoleTargets(c.Running.Targets)
}

// HasCredentials returns true if both credential files are configured
func (c *Config) HasCredentials() bool {
	return c.Garmin.TokenFile != "" && c.Garmin.CookiesFile != ""
}
