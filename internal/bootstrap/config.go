package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/recipe-finder/config"
)

// InitLogger initializes the structured logger on stdout and makes it the default.
func InitLogger(cfg config.LoggingConfig) *slog.Logger {
	logger := NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewLogger builds a JSON (or text, when LOG_FORMAT=text) logger at the configured level.
func NewLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ActiveBackends describes the configured storage backends for startup logging.
func ActiveBackends(cfg *config.AppConfig) map[string]string {
	if cfg == nil {
		return map[string]string{}
	}
	return map[string]string{
		"user_store":      string(cfg.Users.Backend),
		"session_backend": string(cfg.Session.Backend),
	}
}
