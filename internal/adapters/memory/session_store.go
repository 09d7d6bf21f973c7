// Package memory provides process-local stores for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/recipe-finder/internal/domain/auth"
	"github.com/target/recipe-finder/internal/ports"
)

// SessionStore keeps sessions in a map. Expired entries are dropped lazily on Get
// and in bulk by Sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock creates a store that reads time from now.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{sessions: make(map[string]domainauth.Session), now: now}
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(s.now()) {
		return errors.New("session is expired")
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired session and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are held, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
