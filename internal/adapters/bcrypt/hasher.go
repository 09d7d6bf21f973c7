// Package bcrypt adapts golang.org/x/crypto/bcrypt to ports.PasswordHasher.
package bcrypt

import (
	"errors"
	"fmt"

	"github.com/target/recipe-finder/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost used by existing stored hashes.
const DefaultCost = 10

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher; cost is clamped to bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	switch {
	case cost <= 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

var _ ports.PasswordHasher = (*Hasher)(nil)

// Cost reports the effective bcrypt cost.
func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(out), nil
}

func (h *Hasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt compare: %w", err)
	}
}
