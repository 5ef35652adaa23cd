package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"authcore/internal/apperr"
	"authcore/internal/user/domain"
)

// uniqueViolation is the Postgres error code for a unique-constraint conflict.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for
// persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the user. A duplicate email surfaces as a Conflict error.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, email_verified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email.String(), u.PasswordHash, u.Name, u.EmailVerified, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("email already registered")
		}
		return apperr.Internal("create user", err)
	}
	return nil
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, name, email_verified, is_active, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, name, email_verified, is_active, created_at, updated_at
		FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) get(ctx context.Context, query, arg string) (*domain.User, error) {
	var u domain.User
	var email string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &email, &u.PasswordHash, &u.Name, &u.EmailVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("query user", err)
	}
	u.Email = domain.Email(email)
	return &u, nil
}

// Update writes the user's mutable fields back to the store. Updating a
// missing user is a NotFound error.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, name = $3, email_verified = $4, is_active = $5, updated_at = $6
		WHERE id = $1`,
		u.ID, u.PasswordHash, u.Name, u.EmailVerified, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal("update user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal("update user", err)
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
