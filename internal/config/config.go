// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTP server
	Port string

	// Database. The default ":memory:" keeps the directory for the
	// process lifetime only; a file path persists it.
	DatabaseDSN string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Logging
	LogLevel slog.Level
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", ":memory:"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		LogLevel:      levelFromEnv(),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must not be empty")
	}

	if c.TokenDuration <= 0 {
		problems = append(problems, "TOKEN_DURATION must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
