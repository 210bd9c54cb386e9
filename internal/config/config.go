// Package config loads process configuration from environment variables.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime configuration. The bootstrap admin is injected
// here rather than hardcoded: the store seeds it at startup and the ledger
// keeps it undeletable.
type Config struct {
	Port       int    `env:"PORT,        default=8080"`
	DBPath     string `env:"DB_PATH,     default=./data/bills.db"`
	StaticPath string `env:"STATIC_PATH, default=./static"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`

	JWTSecret string        `env:"JWT_SECRET, default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.AdminUsername == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME must not be empty")
	}
	return &cfg, nil
}
