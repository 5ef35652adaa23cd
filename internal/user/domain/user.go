package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"authcore/internal/apperr"
)

// MinPasswordLength is the minimum accepted plaintext password length.
// Enforced before hashing; the hash itself carries no length information.
const MinPasswordLength = 8

// User is the aggregate root for one identity. Sessions and tokens reference
// it by ID and are revoked independently of its lifecycle.
type User struct {
	ID            string
	Email         Email
	PasswordHash  string
	Name          string
	EmailVerified bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidatePassword checks the plaintext password policy. Returns a Validation
// error when the password is too short.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}

// New returns a freshly registered User: email unverified, account active.
// passwordHash must already be produced by the security hasher; New never
// sees plaintext. IDs are UUIDv7 so primary-key order follows creation time.
func New(email Email, passwordHash, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if len(name) > 255 {
		return nil, apperr.Validation("name must be 255 characters or less")
	}
	now := time.Now().UTC()
	return &User{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Email:         email,
		PasswordHash:  passwordHash,
		Name:          name,
		EmailVerified: false,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CanLogin reports whether the account may authenticate.
func (u *User) CanLogin() bool { return u.IsActive }

// SetPasswordHash replaces the stored hash after a password change.
func (u *User) SetPasswordHash(hash string) {
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
}

// VerifyEmail marks the address as confirmed.
func (u *User) VerifyEmail() {
	u.EmailVerified = true
	u.UpdatedAt = time.Now().UTC()
}

// Deactivate blocks the account from logging in. Existing credentials are
// revoked by the caller, not here.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// Reactivate allows a deactivated account to log in again.
func (u *User) Reactivate() {
	u.IsActive = true
	u.UpdatedAt = time.Now().UTC()
}
