// Package middleware holds the HTTP middleware chain: request logging, panic
// recovery, and the two authentication gates (session cookie, Bearer token).
package middleware

import (
	"context"

	sessiondomain "authcore/internal/session/domain"
	userdomain "authcore/internal/user/domain"
)

type contextKey struct{ name string }

var (
	sessionKey = contextKey{"session"}
	userKey    = contextKey{"user"}
)

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, s *sessiondomain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session set by SessionAuth and true if set.
func SessionFromContext(ctx context.Context) (*sessiondomain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*sessiondomain.Session)
	return s, ok
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user set by BearerAuth and true if set.
func UserFromContext(ctx context.Context) (*userdomain.User, bool) {
	u, ok := ctx.Value(userKey).(*userdomain.User)
	return u, ok
}
