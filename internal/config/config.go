// Package config loads client configuration from an optional yaml file
// with environment overrides. A missing config file is not an error; the
// defaults point at a local backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	// APIBaseURL is the commerce backend base, including the common path
	// prefix (e.g. http://localhost:8080/api).
	APIBaseURL string `yaml:"api_base_url" env:"STOREFRONT_API_URL"`

	// RequestTimeoutSeconds bounds each API call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"STOREFRONT_REQUEST_TIMEOUT_SECONDS"`

	// StateDir is where the credential and cart snapshots live.
	StateDir string `yaml:"state_dir" env:"STOREFRONT_STATE_DIR"`

	// RedisAddr switches snapshot storage from the state dir to redis
	// when non-empty (host:port).
	RedisAddr string `yaml:"redis_addr" env:"STOREFRONT_REDIS_ADDR"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"STOREFRONT_LOG_LEVEL"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	stateDir := ".storefront"
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".storefront")
	}
	return Config{
		APIBaseURL:            "http://localhost:8080/api",
		RequestTimeoutSeconds: 15,
		StateDir:              stateDir,
		LogLevel:              "info",
	}
}

// Load builds the configuration: defaults, then the yaml file at path (if
// present), then environment variables. A .env file in the working
// directory is honored the way the rest of the tooling does.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("config: api_base_url is required")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("config: request_timeout_seconds must be positive")
	}
	return cfg, nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
