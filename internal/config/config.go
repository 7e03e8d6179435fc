// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/fsmkit/internal/logging"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "FSMKIT_"

var dotenvLoaded sync.Once

// Config is the process configuration. Every field maps to FSMKIT_<env tag>.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	RedisAddr     string `env:"REDIS_ADDR"` // empty means in-memory storage
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"fsmkit:session:"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"0s"`
	LockTTL    time.Duration `env:"LOCK_TTL" envDefault:"30s"`

	// Table is a YAML or JSON table file served instead of the vending machine.
	Table        string `env:"TABLE"`
	// Effects is a YAML or JSON file binding the table's effect names to commands.
	Effects      string `env:"EFFECTS"`
	VendingStock int    `env:"VENDING_STOCK" envDefault:"3"`
}

// Load reads a .env file from the working directory if one exists, then parses
// the environment.
func Load() (*Config, error) {
	dotenvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})
	return parse(env.Options{Prefix: Prefix})
}

// FromMap parses configuration from vars instead of the process environment.
// Keys carry the FSMKIT_ prefix.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the tags cannot express.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.VendingStock < 0 {
		return fmt.Errorf("vending stock cannot be negative: %d", c.VendingStock)
	}
	if c.SessionTTL < 0 || c.LockTTL < 0 {
		return fmt.Errorf("ttl cannot be negative")
	}
	return nil
}

// Logger builds the application logger described by the configuration.
func (c *Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.New(level, logging.Format(c.LogFormat))
}
