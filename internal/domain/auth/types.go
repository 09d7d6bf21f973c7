package auth

// Package auth contains domain-level types for sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Session is the server-side record we persist for a browser.
// ID is an opaque session identifier; Username is empty for anonymous visitors.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
func (s Session) IsAuthenticated() bool { return s.Username != "" }

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool { return !s.ExpiresAt.After(now) }
