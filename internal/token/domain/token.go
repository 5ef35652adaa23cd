// Package domain holds the bearer-credential entities: the transient
// TokenPair handed to API clients and the persisted per-token record that
// makes revocation possible.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two persisted token kinds.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// TokenPair is the API login/refresh response. It is never persisted as such;
// the two Token records are.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Token is the persisted record of one issued token, one row per access and
// per refresh token. Revoked is true iff RevokedAt is set; the repository's
// conditional update keeps the pair consistent.
type Token struct {
	ID        string
	UserID    string
	Kind      Kind
	JTI       string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}

// NewRecord returns the persisted record for a just-issued token.
func NewRecord(userID string, kind Kind, jti string, expiresAt time.Time) *Token {
	return &Token{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Kind:      kind,
		JTI:       jti,
		ExpiresAt: expiresAt,
		Revoked:   false,
		CreatedAt: time.Now().UTC(),
	}
}

// IsExpired reports whether the record has passed its expiry.
func (t *Token) IsExpired() bool {
	return !time.Now().UTC().Before(t.ExpiresAt)
}

// IsValid reports whether the record is neither revoked nor expired.
func (t *Token) IsValid() bool {
	return !t.Revoked && !t.IsExpired()
}
