package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinSessionSecretLength is the shortest signing key accepted in production.
const MinSessionSecretLength = 32

// SessionBackend represents where session records are kept.
type SessionBackend string

const (
	// SessionBackendMemory keeps sessions in process memory.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis keeps sessions in Redis with a TTL per key.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

// SessionConfig groups session-related configuration. Loaded with the SESSION_ prefix.
type SessionConfig struct {
	// Secret signs session cookies. Required in production.
	Secret string `env:"SECRET"`

	// TTL is how long a session stays valid after it is issued.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// Backend determines which session store to use.
	Backend SessionBackend `env:"BACKEND" envDefault:"memory"`

	// SaveUninitialized allocates a session for anonymous visitors on their first request.
	SaveUninitialized bool `env:"SAVE_UNINITIALIZED" envDefault:"false"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"recipe_session"`

	// SweepInterval controls how often expired in-memory sessions are purged.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// Sanitize applies defaults to zero or negative values.
func (s *SessionConfig) Sanitize() {
	s.Secret = strings.TrimSpace(s.Secret)
	if s.TTL <= 0 {
		s.TTL = 24 * time.Hour
	}
	if s.Backend == "" {
		s.Backend = SessionBackendMemory
	}
	if s.CookieName = strings.TrimSpace(s.CookieName); s.CookieName == "" {
		s.CookieName = "recipe_session"
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = 5 * time.Minute
	}
}

// ValidateSecret rejects secrets that are missing, too short, or the well-known placeholder.
func (s *SessionConfig) ValidateSecret() error {
	switch {
	case s.Secret == "":
		return errors.New("SESSION_SECRET is required in production")
	case strings.EqualFold(s.Secret, "secret"):
		return errors.New("SESSION_SECRET must not be the placeholder value \"secret\"")
	case len(s.Secret) < MinSessionSecretLength:
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}
	return nil
}

// BcryptConfig controls password hashing cost.
type BcryptConfig struct {
	Cost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Sanitize clamps Cost into the range bcrypt accepts.
func (b *BcryptConfig) Sanitize() {
	switch {
	case b.Cost <= 0:
		b.Cost = bcrypt.DefaultCost
	case b.Cost < bcrypt.MinCost:
		b.Cost = bcrypt.MinCost
	case b.Cost > bcrypt.MaxCost:
		b.Cost = bcrypt.MaxCost
	}
}
