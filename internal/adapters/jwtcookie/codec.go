// Package jwtcookie signs session IDs into compact HS256 tokens for the session cookie.
package jwtcookie

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/target/recipe-finder/internal/ports"
)

// MinSecretLength is the shortest signing key accepted.
const MinSecretLength = 32

const issuer = "recipe-finder"

// Codec encodes and verifies session cookie values.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec returns a codec keyed by secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}
	return &Codec{secret: secret, now: time.Now}, nil
}

// WithClock returns a copy of the codec that validates expiry against now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

var _ ports.SessionCodec = (*Codec)(nil)

func (c *Codec) Encode(sessionID string, expiresAt time.Time) (string, error) {
	if sessionID == "" {
		return "", errors.New("session ID cannot be empty")
	}
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(c.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (c *Codec) Decode(token string) (string, error) {
	if token == "" {
		return "", ports.ErrInvalidSessionToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ports.ErrInvalidSessionToken
	}
	return claims.ID, nil
}
