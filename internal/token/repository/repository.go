package repository

import (
	"context"
	"time"

	"authcore/internal/token/domain"
)

// Repository defines persistence for issued-token records (the token store).
type Repository interface {
	// Create persists the record. The jti column is unique; a collision is an
	// Internal error, not a Conflict the caller can act on.
	Create(ctx context.Context, t *domain.Token) error
	// GetByJTI returns the record for jti, or nil if not found.
	GetByJTI(ctx context.Context, jti string) (*domain.Token, error)
	// ConsumeByJTI atomically marks the record revoked iff it is not revoked
	// yet ("revoke iff currently not revoked"). Returns true when this call
	// performed the revocation; false means the record was already revoked or
	// does not exist, which the rotation path must treat as reuse.
	ConsumeByJTI(ctx context.Context, jti string) (bool, error)
	// RevokeAllByUser marks every non-revoked record for the user as revoked
	// and returns how many were flipped. Idempotent.
	RevokeAllByUser(ctx context.Context, userID string) (int64, error)
	// DeleteExpiredBefore removes records that expired before cutoff and
	// returns how many were deleted. Used by the cleanup job only.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
