package repository

import (
	"context"
	"time"

	"authcore/internal/session/domain"
)

// Repository defines persistence for sessions (the session store).
type Repository interface {
	// Create persists the session after deleting any existing session for the
	// same user, both inside one transaction. This is what enforces the
	// at-most-one-live-session invariant.
	Create(ctx context.Context, s *domain.Session) error
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// Update writes expires_at and updated_at back to the store. Used by the
	// sliding-expiry policy.
	Update(ctx context.Context, s *domain.Session) error
	// Delete removes the session. Deleting a missing session is a no-op.
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every session owned by userID.
	DeleteByUser(ctx context.Context, userID string) error
	// DeleteExpiredBefore removes sessions that expired before cutoff and
	// returns how many were deleted. Used by the cleanup job only.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
