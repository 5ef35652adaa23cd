// Package service implements the authentication use cases on top of the
// identity, session, and token stores. Handlers stay thin; every rule about
// credentials lives here or in the domain packages.
package service

import (
	"context"
	"fmt"
	"time"

	"authcore/internal/apperr"
	"authcore/internal/audit"
	auditdomain "authcore/internal/audit/domain"
	"authcore/internal/security"
	sessiondomain "authcore/internal/session/domain"
	tokendomain "authcore/internal/token/domain"
	userdomain "authcore/internal/user/domain"
)

// UserRepo is the slice of the user repository the auth service needs.
type UserRepo interface {
	Create(ctx context.Context, u *userdomain.User) error
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Update(ctx context.Context, u *userdomain.User) error
}

// SessionRepo is the slice of the session repository the auth service needs.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Update(ctx context.Context, s *sessiondomain.Session) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// TokenRepo is the slice of the token repository the auth service needs.
type TokenRepo interface {
	Create(ctx context.Context, t *tokendomain.Token) error
	GetByJTI(ctx context.Context, jti string) (*tokendomain.Token, error)
	ConsumeByJTI(ctx context.Context, jti string) (bool, error)
	RevokeAllByUser(ctx context.Context, userID string) (int64, error)
}

// AuditRepo is the slice of the audit repository the auth service needs for
// reading the security event history.
type AuditRepo interface {
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.Event, error)
}

// AuthService implements register, both login flavors, session validation,
// token refresh with rotation, and the revocation paths.
type AuthService struct {
	users    UserRepo
	sessions SessionRepo
	tokens   TokenRepo
	events   AuditRepo
	hasher   *security.Hasher
	provider *security.TokenProvider
	audit    audit.Logger

	sessionTTL time.Duration
	// slidingSessions switches session expiry from fixed TTL at creation to
	// sliding TTL refreshed on every validation. Off by default.
	slidingSessions bool
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLog may be a nil-repo logger; events are then dropped.
func NewAuthService(
	users UserRepo,
	sessions SessionRepo,
	tokens TokenRepo,
	events AuditRepo,
	hasher *security.Hasher,
	provider *security.TokenProvider,
	auditLog audit.Logger,
	sessionTTL time.Duration,
	slidingSessions bool,
) *AuthService {
	return &AuthService{
		users:           users,
		sessions:        sessions,
		tokens:          tokens,
		events:          events,
		hasher:          hasher,
		provider:        provider,
		audit:           auditLog,
		sessionTTL:      sessionTTL,
		slidingSessions: slidingSessions,
	}
}

// Register creates a new user with the given email, password, and name.
// Returns a Validation error on malformed input and a Conflict error when the
// email is already registered.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*userdomain.User, error) {
	addr, err := userdomain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	if err := userdomain.ValidatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, string(addr))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	user, err := userdomain.New(addr, hash, name)
	if err != nil {
		return nil, err
	}
	// The unique constraint still backs this up; a concurrent duplicate
	// registration surfaces as the same Conflict from the repository.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user for id. Returns NotFound when no such user exists.
func (s *AuthService) GetUser(ctx context.Context, id string) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// LoginWeb authenticates with email/password and creates a server-side
// session, superseding any prior session for the user. The returned session
// carries the CSRF token the client must echo on state-changing requests.
func (s *AuthService) LoginWeb(ctx context.Context, email, password, ip, userAgent string) (*sessiondomain.Session, error) {
	user, err := s.authenticate(ctx, email, password, ip)
	if err != nil {
		return nil, err
	}
	sess, err := sessiondomain.New(user.ID, ip, userAgent, s.sessionTTL)
	if err != nil {
		return nil, apperr.Internal("create session", err)
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	s.audit.Event(ctx, user.ID, auditdomain.ActionLoginWeb, ip, "")
	return sess, nil
}

// LoginAPI authenticates with email/password and issues a fresh access and
// refresh token pair, persisting one record per token.
func (s *AuthService) LoginAPI(ctx context.Context, email, password, ip string) (*tokendomain.TokenPair, error) {
	user, err := s.authenticate(ctx, email, password, ip)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.audit.Event(ctx, user.ID, auditdomain.ActionLoginAPI, ip, "")
	return pair, nil
}

// ValidateSession returns the live session for id. Missing and expired
// sessions both yield an Authentication error; expired sessions are deleted
// on sight. With the sliding policy enabled, validation pushes the expiry
// forward by the session TTL.
func (s *AuthService) ValidateSession(ctx context.Context, id string) (*sessiondomain.Session, error) {
	if id == "" {
		return nil, apperr.Authentication("invalid session")
	}
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.Authentication("invalid session")
	}
	if sess.IsExpired() {
		_ = s.sessions.Delete(ctx, id)
		return nil, apperr.Authentication("session expired")
	}
	if s.slidingSessions {
		sess.Extend(s.sessionTTL)
		if err := s.sessions.Update(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// VerifyCsrf validates the session and compares the submitted CSRF token
// against the stored one in constant time.
func (s *AuthService) VerifyCsrf(ctx context.Context, sessionID, submitted string) (*sessiondomain.Session, error) {
	sess, err := s.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.VerifyCsrf(submitted) {
		return nil, apperr.Authentication("invalid csrf token")
	}
	return sess, nil
}

// LogoutWeb deletes the session. Deleting an unknown or already-deleted
// session succeeds; logout is idempotent.
func (s *AuthService) LogoutWeb(ctx context.Context, sessionID, ip string) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if sess != nil {
		s.audit.Event(ctx, sess.UserID, auditdomain.ActionLogoutWeb, ip, "")
	}
	return nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Presenting an already-revoked token is treated as theft
// evidence and revokes every outstanding token for the user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip string) (*tokendomain.TokenPair, error) {
	userID, jti, err := s.provider.Validate(refreshToken, security.TokenKindRefresh)
	if err != nil {
		return nil, apperr.Authentication("invalid refresh token")
	}
	rec, err := s.tokens.GetByJTI(ctx, jti)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.Authentication("invalid refresh token")
	}
	if rec.Revoked {
		return nil, s.revokeFamily(ctx, rec.UserID, ip, jti)
	}
	if rec.IsExpired() {
		return nil, apperr.Authentication("invalid refresh token")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CanLogin() {
		return nil, apperr.Authentication("invalid refresh token")
	}
	// Atomic revoke-iff-not-revoked. Of two concurrent refreshes with the
	// same token, exactly one lands here first; the loser observes an
	// already-consumed record and takes the reuse path.
	consumed, err := s.tokens.ConsumeByJTI(ctx, jti)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, s.revokeFamily(ctx, rec.UserID, ip, jti)
	}
	pair, err := s.issuePair(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.audit.Event(ctx, userID, auditdomain.ActionTokenRefresh, ip, "")
	return pair, nil
}

// LogoutAPI revokes every outstanding token for the user. Idempotent: a
// second call flips nothing and still succeeds.
func (s *AuthService) LogoutAPI(ctx context.Context, userID, ip string) error {
	if _, err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}
	s.audit.Event(ctx, userID, auditdomain.ActionLogoutAPI, ip, "")
	return nil
}

// Authorize validates a bearer access token and returns the user it belongs
// to. The token must verify cryptographically, its jti must exist in the
// store and not be revoked, and the user must still be active.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*userdomain.User, error) {
	userID, jti, err := s.provider.Validate(accessToken, security.TokenKindAccess)
	if err != nil {
		return nil, apperr.Authentication("invalid token")
	}
	rec, err := s.tokens.GetByJTI(ctx, jti)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.IsValid() {
		return nil, apperr.Authentication("invalid token")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CanLogin() {
		return nil, apperr.Authentication("invalid token")
	}
	return user, nil
}

// ChangePassword verifies the current password and replaces the hash. Every
// outstanding credential (sessions and tokens) is revoked so the new
// password is the only way back in.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next, ip string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	ok, err := s.hasher.Verify(user.PasswordHash, current)
	if err != nil {
		return apperr.Internal("verify password", err)
	}
	if !ok {
		return apperr.Authentication("current password is incorrect")
	}
	if err := userdomain.ValidatePassword(next); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	user.SetPasswordHash(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}
	s.audit.Event(ctx, userID, auditdomain.ActionPasswordChanged, ip, "")
	return nil
}

// Deactivate blocks the account and revokes every outstanding credential.
func (s *AuthService) Deactivate(ctx context.Context, userID, ip string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	user.Deactivate()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}
	s.audit.Event(ctx, userID, auditdomain.ActionDeactivated, ip, "")
	return nil
}

// SecurityEvents returns the user's security event history, newest first.
// limit is clamped to 1..100 with a default of 20; negative offsets read from
// the start.
func (s *AuthService) SecurityEvents(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.events.ListByUser(ctx, userID, limit, offset)
}

// Reactivate allows a previously deactivated account to log in again.
func (s *AuthService) Reactivate(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	user.Reactivate()
	return s.users.Update(ctx, user)
}

// authenticate resolves email+password to an active user. Unknown email,
// wrong password, and an inactive account are indistinguishable to the
// caller; the audit log keeps the detail.
func (s *AuthService) authenticate(ctx context.Context, email, password, ip string) (*userdomain.User, error) {
	addr, err := userdomain.NewEmail(email)
	if err != nil {
		return nil, apperr.Authentication("invalid credentials")
	}
	user, err := s.users.GetByEmail(ctx, string(addr))
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.audit.Event(ctx, "", auditdomain.ActionLoginFailure, ip, fmt.Sprintf("unknown email %s", addr))
		return nil, apperr.Authentication("invalid credentials")
	}
	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, apperr.Internal("verify password", err)
	}
	if !ok {
		s.audit.Event(ctx, user.ID, auditdomain.ActionLoginFailure, ip, "wrong password")
		return nil, apperr.Authentication("invalid credentials")
	}
	if !user.CanLogin() {
		s.audit.Event(ctx, user.ID, auditdomain.ActionLoginFailure, ip, "account deactivated")
		return nil, apperr.Authentication("invalid credentials")
	}
	return user, nil
}

// issuePair issues and persists one access and one refresh token.
func (s *AuthService) issuePair(ctx context.Context, userID string) (*tokendomain.TokenPair, error) {
	access, accessJTI, accessExp, err := s.provider.IssueAccess(userID)
	if err != nil {
		return nil, apperr.Internal("issue access token", err)
	}
	refresh, refreshJTI, refreshExp, err := s.provider.IssueRefresh(userID)
	if err != nil {
		return nil, apperr.Internal("issue refresh token", err)
	}
	if err := s.tokens.Create(ctx, tokendomain.NewRecord(userID, tokendomain.KindAccess, accessJTI, accessExp)); err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, tokendomain.NewRecord(userID, tokendomain.KindRefresh, refreshJTI, refreshExp)); err != nil {
		return nil, err
	}
	return &tokendomain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.provider.AccessTTL().Seconds()),
	}, nil
}

// revokeFamily handles refresh-token reuse: every outstanding token for the
// user is revoked and the event is audited. Always returns Authentication.
func (s *AuthService) revokeFamily(ctx context.Context, userID, ip, jti string) error {
	n, err := s.tokens.RevokeAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.audit.Event(ctx, userID, auditdomain.ActionReuseDetected, ip, fmt.Sprintf("jti %s", jti))
	s.audit.Event(ctx, userID, auditdomain.ActionFamilyRevoked, ip, fmt.Sprintf("%d tokens revoked", n))
	return apperr.Authentication("refresh token reuse detected")
}
