package domain

import (
	"context"
	"errors"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the email is
// already registered. Detection relies on the store's unique constraint,
// never on a check-then-insert sequence.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           int64
	Email        string
	PasswordHash string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a new user and returns the generated user ID.
	// Returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, email, passwordHash string) (int64, error)

	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)
}
