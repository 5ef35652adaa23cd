package domain

import (
	"time"

	"github.com/google/uuid"

	"authcore/internal/security"
)

// Session is the server-side browser credential. At most one live session
// exists per user; the repository enforces that on create.
type Session struct {
	ID        string
	UserID    string
	CsrfToken string
	IPAddress string // optional, empty when unknown
	UserAgent string // optional
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a Session for userID expiring after ttl, with a freshly
// generated CSRF token.
func New(userID, ipAddress, userAgent string, ttl time.Duration) (*Session, error) {
	csrf, err := security.GenerateCSRFToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		CsrfToken: csrf,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsExpired reports whether the session has passed its expiry. Expiry is
// exclusive: a session is dead at exactly ExpiresAt.
func (s *Session) IsExpired() bool {
	return !time.Now().UTC().Before(s.ExpiresAt)
}

// VerifyCsrf compares submitted against the stored token in constant time.
func (s *Session) VerifyCsrf(submitted string) bool {
	return security.CSRFTokenEqual(s.CsrfToken, submitted)
}

// Extend pushes the expiry to now + ttl. Only called when the sliding-expiry
// policy is enabled; default policy is fixed TTL from creation.
func (s *Session) Extend(ttl time.Duration) {
	now := time.Now().UTC()
	s.ExpiresAt = now.Add(ttl)
	s.UpdatedAt = now
}
