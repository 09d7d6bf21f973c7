package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchResult_Empty(t *testing.T) {
	assert.True(t, SearchResult{Ingredient: "zzzznotfood"}.Empty())
	assert.True(t, SearchResult{Recipes: []Recipe{}}.Empty())
	assert.False(t, SearchResult{Recipes: []Recipe{{ID: "1", Name: "Chicken Curry"}}}.Empty())
}

func TestNewUser(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	u := NewUser("alice", "$2a$10$hash", now)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, u.CreatedAt.Equal(now))
}
