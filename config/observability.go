package config

import (
	"log/slog"
	"strings"
)

const defaultMetricsPrefix = "recipe_finder"

// ObservabilityConfig groups configuration that controls metrics and logging.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
	Logging LoggingConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Logging.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"recipe_finder"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// LoggingConfig selects the slog handler and level.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Sanitize lowercases values and falls back to info/json for anything unknown.
func (c *LoggingConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Level = "info"
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "text" {
		c.Format = "json"
	}
}

// SlogLevel converts Level into a slog.Level.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
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
