package config

import (
	"net"
	"strconv"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string `env:"HTTP_HOST" envDefault:""`

	// Port is the listening port.
	Port int `env:"PORT" envDefault:"3000"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ShutdownTimeout bounds graceful shutdown after a signal.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Port <= 0 || h.Port > 65535 {
		h.Port = 3000
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

// Addr returns the host:port the server listens on.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}
