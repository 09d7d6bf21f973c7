// Package redis provides the Redis-backed session store used when sessions
// must survive restarts or be shared between replicas.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/recipe-finder/internal/domain/auth"
	"github.com/target/recipe-finder/internal/ports"
)

// DefaultKeyPrefix namespaces session keys in a shared Redis.
const DefaultKeyPrefix = "recipe:session:"

// SessionStore keeps sessions as JSON values whose Redis TTL tracks ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Prefix string
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// NewSessionStore creates a Redis session store with the default key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithOptions(client, SessionStoreOptions{})
}

// NewSessionStoreWithOptions creates a Redis session store.
func NewSessionStoreWithOptions(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{client: client, prefix: prefix, now: now}
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Redis TTL granularity can lag ExpiresAt slightly.
	if sess.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
