package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"authcore/internal/apperr"
	"authcore/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create deletes any prior session for the user and inserts the new one in a
// single transaction, so a crash cannot leave a user with two live sessions
// or none mid-login.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("begin session tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, s.UserID); err != nil {
		return apperr.Internal("supersede sessions", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, csrf_token, ip_address, user_agent, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.CsrfToken,
		nullString(s.IPAddress), nullString(s.UserAgent),
		s.ExpiresAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal("create session", err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal("commit session tx", err)
	}
	return nil
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	var ip, ua sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, csrf_token, ip_address, user_agent, expires_at, created_at, updated_at
		FROM sessions WHERE id = $1`, id).Scan(
		&s.ID, &s.UserID, &s.CsrfToken, &ip, &ua, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("query session", err)
	}
	s.IPAddress = ip.String
	s.UserAgent = ua.String
	return &s, nil
}

// Update writes expires_at and updated_at back to the store.
func (r *PostgresRepository) Update(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET expires_at = $2, updated_at = $3 WHERE id = $1`,
		s.ID, s.ExpiresAt, s.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal("update session", err)
	}
	return nil
}

// Delete removes the session. Missing rows are a no-op, which makes logout
// idempotent and lets the cleanup job race the request path safely.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return apperr.Internal("delete session", err)
	}
	return nil
}

// DeleteByUser removes every session owned by userID.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return apperr.Internal("delete sessions by user", err)
	}
	return nil
}

// DeleteExpiredBefore removes sessions that expired before cutoff.
func (r *PostgresRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, apperr.Internal("delete expired sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Internal("delete expired sessions", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
