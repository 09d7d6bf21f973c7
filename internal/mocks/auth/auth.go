// Package auth contains simple hand-written test doubles for the auth and
// recipe ports. These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/target/recipe-finder/internal/domain/model"
	"github.com/target/recipe-finder/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.PasswordHasher = PlainHasher{}
	_ ports.RecipeLookup   = (*StubRecipeLookup)(nil)
	_ ports.SessionCodec   = PlainCodec{}
)

const plainPrefix = "plain:"

// PlainHasher "hashes" by prefixing, so tests run without bcrypt's cost.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return plainPrefix + password, nil }

func (PlainHasher) Compare(hash, password string) (bool, error) {
	if !strings.HasPrefix(hash, plainPrefix) {
		return false, errors.New("malformed hash")
	}
	return hash == plainPrefix+password, nil
}

// StubRecipeLookup returns canned results per ingredient and records queries.
type StubRecipeLookup struct {
	SearchFunc func(ctx context.Context, ingredient string) ([]model.Recipe, error)

	// Results by ingredient; a missing key yields an empty result.
	Results map[string][]model.Recipe

	mu      sync.Mutex
	queries []string
}

func (s *StubRecipeLookup) Search(ctx context.Context, ingredient string) ([]model.Recipe, error) {
	s.mu.Lock()
	s.queries = append(s.queries, ingredient)
	s.mu.Unlock()

	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, ingredient)
	}
	if r, ok := s.Results[ingredient]; ok {
		return r, nil
	}
	return []model.Recipe{}, nil
}

// Queries returns the ingredients searched so far, in order.
func (s *StubRecipeLookup) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// PlainCodec uses the session ID itself as the cookie value. Expiry is not encoded.
type PlainCodec struct{}

func (PlainCodec) Encode(sessionID string, _ time.Time) (string, error) {
	if sessionID == "" {
		return "", errors.New("session ID cannot be empty")
	}
	return sessionID, nil
}

func (PlainCodec) Decode(token string) (string, error) {
	if token == "" {
		return "", ports.ErrInvalidSessionToken
	}
	return token, nil
}
