package memory

import (
	"context"
	"sync"

	"github.com/target/recipe-finder/internal/domain/model"
	"github.com/target/recipe-finder/internal/ports"
)

// UserStore is a map-backed credential store. Usernames are compared exactly.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]model.User)}
}

var _ ports.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, user model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return ports.ErrUserExists
	}
	s.users[user.Username] = user
	return nil
}

func (s *UserStore) Get(ctx context.Context, username string) (model.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok, nil
}
