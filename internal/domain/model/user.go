package model

import "time"

// User is a registered account. Username is the unique key.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser builds a user record from an already-hashed password.
func NewUser(username, passwordHash string, now time.Time) User {
	return User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
	}
}
