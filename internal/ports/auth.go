package ports

// Package ports defines interfaces (hexagonal ports) for the application's collaborators.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/target/recipe-finder/internal/domain/auth"
	"github.com/target/recipe-finder/internal/domain/model"
)

// ErrUserExists is returned by UserStore.Create when the username is already registered.
var ErrUserExists = errors.New("user already exists")

// ErrSessionNotFound is returned by SessionStore.Get when no live session has the given ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionToken is returned by SessionCodec.Decode for tampered, malformed, or expired cookies.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionStore persists and retrieves browser sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionCodec turns a session ID into a signed cookie value and back.
type SessionCodec interface {
	Encode(sessionID string, expiresAt time.Time) (string, error)
	Decode(token string) (string, error)
}

// UserStore is the credential store keyed by username.
type UserStore interface {
	// Create inserts a new user, returning ErrUserExists if the username is taken.
	Create(ctx context.Context, user model.User) error
	// Get returns found=false with a nil error when the username is unknown.
	Get(ctx context.Context, username string) (user model.User, found bool, err error)
}

// PasswordHasher is a one-way salted hashing primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns false with a nil error on a plain mismatch.
	Compare(hash, password string) (bool, error)
}
