// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package config loads process configuration from a YAML file, command-line
// flags and environment fallbacks. Configuration is established once at
// startup and read-only thereafter.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/taskvault/taskvault/internal/auth"
)

// Environment fallbacks for settings that are awkward to put in files.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTokenSecret = "TASKVAULT_TOKEN_SECRET"
)

// Config is the process-wide configuration.
type Config struct {
	Database      DatabaseConfig      `koanf:"database"`
	HTTP          HTTPConfig          `koanf:"http"`
	Auth          AuthConfig          `koanf:"auth"`
	Observability ObservabilityConfig `koanf:"observability"`
	Log           LogConfig           `koanf:"log"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
	BcryptCost  int           `koanf:"bcrypt_cost"`
}

// ObservabilityConfig configures the metrics/health server.
type ObservabilityConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"` // "json" or "text"
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		Auth: AuthConfig{
			TokenTTL:   auth.DefaultTokenTTL,
			BcryptCost: auth.DefaultBcryptCost,
		},
		Observability: ObservabilityConfig{Addr: "127.0.0.1:9100"},
		Log:           LogConfig{Format: "json", Level: "info"},
	}
}

// Load builds a Config from the optional YAML file at path, then the given
// flag set (flag names use dots, e.g. "http.addr"), then environment
// fallbacks for the database URL and token secret. Later sources win.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv(EnvDatabaseURL)
	}
	if cfg.Auth.TokenSecret == "" {
		cfg.Auth.TokenSecret = os.Getenv(EnvTokenSecret)
	}

	return &cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set database.url or %s)", EnvDatabaseURL)
	}
	if c.Auth.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("token secret is required (set auth.token_secret or %s)", EnvTokenSecret)
	}
	return nil
}
