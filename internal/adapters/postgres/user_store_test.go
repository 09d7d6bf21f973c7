package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/recipe-finder/internal/domain/model"
	"github.com/target/recipe-finder/internal/ports"
	"github.com/target/recipe-finder/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		store := NewUserStore(db)
		ctx := context.Background()

		u := model.NewUser("alice", "$2a$10$abcdefghijklmnopqrstuv", testutil.TestTime())
		require.NoError(t, store.Create(ctx, u))

		got, found, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, u.Username, got.Username)
		assert.Equal(t, u.PasswordHash, got.PasswordHash)
		assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Millisecond)
	})
}

func TestUserStore_GetUnknown(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, found, err := NewUserStore(db).Get(context.Background(), "nobody")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		store := NewUserStore(db)
		ctx := context.Background()

		require.NoError(t, store.Create(ctx, model.NewUser("alice", "h1", testutil.TestTime())))
		err := store.Create(ctx, model.NewUser("alice", "h2", testutil.TestTime()))
		assert.ErrorIs(t, err, ports.ErrUserExists)
	})
}
