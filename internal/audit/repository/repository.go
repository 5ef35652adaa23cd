package repository

import (
	"context"

	"authcore/internal/audit/domain"
)

// Repository defines persistence for security events.
type Repository interface {
	Create(ctx context.Context, e *domain.Event) error
	// ListByUser returns events for the user, newest first, paginated by
	// limit and offset.
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Event, error)
}
