// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PANEL_DB_PATH" envDefault:"./data/panel.db"`
	ServerHost string `env:"PANEL_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PANEL_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PANEL_ENV" envDefault:"development"`
	LogLevel   string `env:"PANEL_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"PANEL_UPLOADS_DIR" envDefault:"./uploads"`
	PublicBase string `env:"PANEL_PUBLIC_BASE" envDefault:"/uploads"`

	// Cache configuration
	RedisURL    string `env:"PANEL_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix string `env:"PANEL_CACHE_PREFIX" envDefault:"panel:"` // Redis key prefix
	CacheTTL    int    `env:"PANEL_CACHE_TTL" envDefault:"3600"`      // Default cache TTL in seconds

	// Seeding configuration
	DoSeed        bool   `env:"PANEL_DO_SEED" envDefault:"false"` // Enable database seeding
	SeedAdminPass string `env:"PANEL_SEED_ADMIN_PASSWORD"`        // Initial admin password when seeding

	// Public endpoint rate limiting (requests per minute per client IP)
	PublicRateLimit int `env:"PANEL_PUBLIC_RATE_LIMIT" envDefault:"10"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("PANEL_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("PANEL_LOG_LEVEL must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}

	if cfg.PublicRateLimit < 1 {
		return nil, fmt.Errorf("PANEL_PUBLIC_RATE_LIMIT must be positive, got %d", cfg.PublicRateLimit)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level string to a slog level name
// understood by the logging setup in main.
func (c Config) SlogLevel() string {
	return strings.ToLower(c.LogLevel)
}
