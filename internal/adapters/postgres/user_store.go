// Package postgres implements the credential store on a Postgres users table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/target/recipe-finder/internal/domain/model"
	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/ports"
)

// UserStore reads and writes the users table created by internal/migrate.
type UserStore struct {
	db *sql.DB
}

// NewUserStore wraps an open database handle.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

var _ ports.UserStore = (*UserStore)(nil)

const insertUserSQL = `
	INSERT INTO users (username, password_hash, created_at)
	VALUES ($1, $2, $3)`

const selectUserSQL = `
	SELECT username, password_hash, created_at
	FROM users
	WHERE username = $1`

func (s *UserStore) Create(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, insertUserSQL, user.Username, user.PasswordHash, user.CreatedAt)
	if err == nil {
		return nil
	}
	if apperrors.IsConflict(apperrors.MapStoreError(err)) {
		return ports.ErrUserExists
	}
	return fmt.Errorf("insert user: %w", err)
}

func (s *UserStore) Get(ctx context.Context, username string) (model.User, bool, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, selectUserSQL, username).Scan(&u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, true, nil
}
