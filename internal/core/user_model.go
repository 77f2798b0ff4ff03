package core

import (
	"context"
	"time"
)

// User is a console operator allowed to log in to the backend.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// UserService provides user lookup and credential checks.
type UserService interface {
	// GetByUsername finds an active user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Authenticate returns the user when password matches, ErrUnauthenticated otherwise.
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// Upsert creates the user or resets its password and role. Used for seeding.
	Upsert(ctx context.Context, username, password, role string) (*User, error)
}
