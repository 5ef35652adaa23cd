package repository

import (
	"context"
	"database/sql"

	"authcore/internal/apperr"
	"authcore/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a security-event repository that uses the
// given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the event.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	uid := sql.NullString{String: e.UserID, Valid: e.UserID != ""}
	meta := sql.NullString{String: e.Metadata, Valid: e.Metadata != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_events (id, user_id, action, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, uid, e.Action, e.IP, meta, e.CreatedAt,
	)
	if err != nil {
		return apperr.Internal("create security event", err)
	}
	return nil
}

// ListByUser returns events for the user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, action, ip, metadata, created_at
		FROM security_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, apperr.Internal("list security events", err)
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		var uid, meta sql.NullString
		if err := rows.Scan(&e.ID, &uid, &e.Action, &e.IP, &meta, &e.CreatedAt); err != nil {
			return nil, apperr.Internal("scan security event", err)
		}
		e.UserID = uid.String
		e.Metadata = meta.String
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("list security events", err)
	}
	return out, nil
}
