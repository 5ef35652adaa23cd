package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"authcore/internal/apperr"
	"authcore/internal/token/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a token repository that uses the given db for
// persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the token record.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Token) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (id, user_id, kind, jti, expires_at, revoked, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, string(t.Kind), t.JTI, t.ExpiresAt, t.Revoked, nullTime(t.RevokedAt), t.CreatedAt,
	)
	if err != nil {
		return apperr.Internal("create token record", err)
	}
	return nil
}

// GetByJTI returns the record for jti, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByJTI(ctx context.Context, jti string) (*domain.Token, error) {
	var t domain.Token
	var kind string
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, jti, expires_at, revoked, revoked_at, created_at
		FROM tokens WHERE jti = $1`, jti).Scan(
		&t.ID, &t.UserID, &kind, &t.JTI, &t.ExpiresAt, &t.Revoked, &revokedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("query token record", err)
	}
	t.Kind = domain.Kind(kind)
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	return &t, nil
}

// ConsumeByJTI revokes the record iff it is not revoked yet. The WHERE clause
// is the atomic compare-and-set two concurrent refreshes race on: exactly one
// caller sees rows=1, the loser sees rows=0.
func (r *PostgresRepository) ConsumeByJTI(ctx context.Context, jti string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tokens SET revoked = TRUE, revoked_at = $2
		WHERE jti = $1 AND revoked = FALSE`,
		jti, time.Now().UTC(),
	)
	if err != nil {
		return false, apperr.Internal("consume token record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Internal("consume token record", err)
	}
	return n == 1, nil
}

// RevokeAllByUser marks every non-revoked record for the user as revoked.
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tokens SET revoked = TRUE, revoked_at = $2
		WHERE user_id = $1 AND revoked = FALSE`,
		userID, time.Now().UTC(),
	)
	if err != nil {
		return 0, apperr.Internal("revoke user tokens", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Internal("revoke user tokens", err)
	}
	return n, nil
}

// DeleteExpiredBefore removes records that expired before cutoff.
func (r *PostgresRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, apperr.Internal("delete expired tokens", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Internal("delete expired tokens", err)
	}
	return n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
