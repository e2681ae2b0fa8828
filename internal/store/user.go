package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
)

// UserStore defines the interface for account persistence.
type UserStore interface {
	// Create hashes the plaintext password and saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
