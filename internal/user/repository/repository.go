package repository

import (
	"context"

	"authcore/internal/user/domain"
)

// Repository defines persistence for users (the identity store).
type Repository interface {
	// Create persists the user. Returns a Conflict error when the email is
	// already registered; the unique constraint is the source of truth.
	Create(ctx context.Context, u *domain.User) error
	// GetByID returns the user for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail returns the user with the given normalized email, or nil if
	// not found.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update writes the user's mutable fields (password hash, name, flags,
	// updated_at) back to the store.
	Update(ctx context.Context, u *domain.User) error
}
