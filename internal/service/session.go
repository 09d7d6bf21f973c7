package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/recipe-finder/internal/domain/auth"
	"github.com/target/recipe-finder/internal/ports"
)

// DefaultSessionTTL is how long a session lives without an explicit TTL.
const DefaultSessionTTL = 24 * time.Hour

// ErrNoSession is returned when a cookie does not resolve to a live session.
var ErrNoSession = errors.New("no active session")

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store     ports.SessionStore // Required
	Codec     ports.SessionCodec // Required
	Config    SessionConfig
	Telemetry Telemetry // Optional
}

// SessionConfig holds session policy.
type SessionConfig struct {
	TTL time.Duration
}

// IssuedSession is a persisted session plus the signed cookie value that names it.
type IssuedSession struct {
	Session domainauth.Session
	Token   string
}

// SessionService creates, resolves, rotates and destroys browser sessions.
type SessionService struct {
	store ports.SessionStore
	codec ports.SessionCodec
	ttl   time.Duration
	tel   Telemetry
}

// NewSessionService constructs a SessionService.
func NewSessionService(opts SessionServiceOptions) (*SessionService, error) {
	if opts.Store == nil {
		return nil, errors.New("SessionStore is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("SessionCodec is required")
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		store: opts.Store,
		codec: opts.Codec,
		ttl:   ttl,
		tel:   opts.Telemetry.withDefaults("session_service"),
	}, nil
}

// TTL reports the configured session lifetime.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Start persists a new session for username and signs its cookie value.
func (s *SessionService) Start(ctx context.Context, username string) (IssuedSession, error) {
	now := s.tel.Now()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return IssuedSession{}, fmt.Errorf("save session: %w", err)
	}
	token, err := s.codec.Encode(sess.ID, sess.ExpiresAt)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("encode session: %w", err)
	}
	return IssuedSession{Session: sess, Token: token}, nil
}

// StartAnonymous persists a session with no user attached.
func (s *SessionService) StartAnonymous(ctx context.Context) (IssuedSession, error) {
	return s.Start(ctx, "")
}

// Get loads a session by ID. Missing and expired sessions both yield ErrNoSession.
func (s *SessionService) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNoSession
	}
	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return domainauth.Session{}, ErrNoSession
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.tel.Now()) {
		if err := s.store.Delete(ctx, id); err != nil {
			return domainauth.Session{}, errors.Join(ErrNoSession, fmt.Errorf("delete expired session: %w", err))
		}
		return domainauth.Session{}, ErrNoSession
	}
	return sess, nil
}

// Resolve verifies a cookie value and loads the session it names.
// A forged or expired cookie is treated like no cookie.
func (s *SessionService) Resolve(ctx context.Context, token string) (domainauth.Session, error) {
	id, err := s.codec.Decode(token)
	if err != nil {
		return domainauth.Session{}, ErrNoSession
	}
	return s.Get(ctx, id)
}

// Rotate replaces previousID (if any) with a fresh session for username, so a
// session ID observed before login never becomes authenticated.
func (s *SessionService) Rotate(ctx context.Context, previousID, username string) (IssuedSession, error) {
	if previousID != "" {
		if err := s.store.Delete(ctx, previousID); err != nil {
			s.tel.Logger.WarnContext(ctx, "failed to delete pre-login session", "error", err)
		}
	}
	issued, err := s.Start(ctx, username)
	if err != nil {
		return IssuedSession{}, err
	}
	s.tel.Logger.InfoContext(ctx, "session started", "username", username)
	return issued, nil
}

// Logout destroys the session. An empty ID is a no-op.
func (s *SessionService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
