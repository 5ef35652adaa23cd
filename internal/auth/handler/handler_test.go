package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"authcore/internal/apperr"
	auditdomain "authcore/internal/audit/domain"
	"authcore/internal/server/middleware"
	sessiondomain "authcore/internal/session/domain"
	tokendomain "authcore/internal/token/domain"
	userdomain "authcore/internal/user/domain"
)

// stubService scripts one response per operation.
type stubService struct {
	user    *userdomain.User
	session *sessiondomain.Session
	pair    *tokendomain.TokenPair
	events  []*auditdomain.Event
	err     error

	logoutWebCalls int
	logoutAPICalls int
}

func (s *stubService) Register(ctx context.Context, email, password, name string) (*userdomain.User, error) {
	return s.user, s.err
}

func (s *stubService) LoginWeb(ctx context.Context, email, password, ip, userAgent string) (*sessiondomain.Session, error) {
	return s.session, s.err
}

func (s *stubService) LoginAPI(ctx context.Context, email, password, ip string) (*tokendomain.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubService) Refresh(ctx context.Context, refreshToken, ip string) (*tokendomain.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubService) LogoutWeb(ctx context.Context, sessionID, ip string) error {
	s.logoutWebCalls++
	return s.err
}

func (s *stubService) LogoutAPI(ctx context.Context, userID, ip string) error {
	s.logoutAPICalls++
	return s.err
}

func (s *stubService) ChangePassword(ctx context.Context, userID, current, next, ip string) error {
	return s.err
}

func (s *stubService) Deactivate(ctx context.Context, userID, ip string) error {
	return s.err
}

func (s *stubService) GetUser(ctx context.Context, id string) (*userdomain.User, error) {
	return s.user, s.err
}

func (s *stubService) SecurityEvents(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.Event, error) {
	return s.events, s.err
}

func testUser() *userdomain.User {
	return &userdomain.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Name:     "Test User",
		IsActive: true,
	}
}

func testSession(t *testing.T) *sessiondomain.Session {
	t.Helper()
	sess, err := sessiondomain.New("user-1", "", "", time.Hour)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return sess
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestWebRegister(t *testing.T) {
	svc := &stubService{user: testUser()}
	h := NewWebHandler(svc, WebConfig{CookieSecure: true, SessionMaxAge: 86400})

	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/web/register", `{"email":"user@example.com","password":"password123","name":"Test User"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "user-1" || resp.Email != "user@example.com" {
		t.Errorf("unexpected body %+v", resp)
	}
}

func TestWebRegisterErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body string
		want int
	}{
		{"malformed body", nil, `{not json`, http.StatusBadRequest},
		{"unknown field", nil, `{"email":"a@b.co","password":"password123","name":"x","admin":true}`, http.StatusBadRequest},
		{"validation", apperr.Validation("password must be at least 8 characters"), `{}`, http.StatusBadRequest},
		{"conflict", apperr.Conflict("email already registered"), `{}`, http.StatusConflict},
		{"internal", apperr.Internal("create user", nil), `{}`, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewWebHandler(&stubService{err: tc.err}, WebConfig{})
			rec := httptest.NewRecorder()
			h.Register(rec, postJSON("/web/register", tc.body))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "create user") {
				t.Error("internal error detail must not leak to the client")
			}
		})
	}
}

func TestWebLogin(t *testing.T) {
	sess := testSession(t)
	h := NewWebHandler(&stubService{session: sess}, WebConfig{CookieSecure: true, SessionMaxAge: 86400})

	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/web/login", `{"email":"user@example.com","password":"password123"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("session cookie must be set")
	}
	if c.Value != sess.ID {
		t.Errorf("cookie value = %q, want session id", c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie must be HttpOnly, Secure, SameSite=Strict; got %+v", c)
	}
	if c.MaxAge != 86400 {
		t.Errorf("cookie max-age = %d, want 86400", c.MaxAge)
	}

	var resp webLoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CsrfToken != sess.CsrfToken {
		t.Error("csrf token must be returned in the body")
	}
}

func TestWebLoginFailure(t *testing.T) {
	h := NewWebHandler(&stubService{err: apperr.Authentication("invalid credentials")}, WebConfig{})
	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/web/login", `{"email":"user@example.com","password":"wrong"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Error("failed login must not set a session cookie")
	}
}

func TestWebLogout(t *testing.T) {
	sess := testSession(t)
	svc := &stubService{session: sess}
	h := NewWebHandler(svc, WebConfig{CookieSecure: true})

	req := postJSON("/web/logout", "")
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if svc.logoutWebCalls != 1 {
		t.Errorf("LogoutWeb calls = %d, want 1", svc.logoutWebCalls)
	}
	c := sessionCookie(rec)
	if c == nil || c.MaxAge != -1 {
		t.Error("logout must clear the session cookie")
	}
}

func TestWebChangePasswordClearsCookie(t *testing.T) {
	sess := testSession(t)
	h := NewWebHandler(&stubService{}, WebConfig{})

	req := postJSON("/web/password", `{"current_password":"password123","new_password":"newpassword456"}`)
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	c := sessionCookie(rec)
	if c == nil || c.MaxAge != -1 {
		t.Error("password change must clear the session cookie")
	}
}

func TestWebMe(t *testing.T) {
	sess := testSession(t)
	h := NewWebHandler(&stubService{user: testUser()}, WebConfig{})

	req := httptest.NewRequest(http.MethodGet, "/web/me", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "user-1" {
		t.Errorf("unexpected body %+v", resp)
	}
}

func TestWebSecurityEvents(t *testing.T) {
	sess := testSession(t)
	now := time.Now().UTC()
	h := NewWebHandler(&stubService{events: []*auditdomain.Event{
		{Action: "login_web", IP: "203.0.113.7", CreatedAt: now},
		{Action: "login_failure", IP: "203.0.113.8", Metadata: "wrong password", CreatedAt: now.Add(-time.Minute)},
	}}, WebConfig{})

	req := httptest.NewRequest(http.MethodGet, "/web/security-events", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.SecurityEvents(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp []securityEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("events = %d, want 2", len(resp))
	}
	if resp[0].Action != "login_web" || resp[1].Metadata != "wrong password" {
		t.Errorf("unexpected body %+v", resp)
	}

	// Without a session in context the endpoint refuses.
	rec = httptest.NewRecorder()
	h.SecurityEvents(rec, httptest.NewRequest(http.MethodGet, "/web/security-events", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without session: status = %d, want 401", rec.Code)
	}
}

func TestAPILogin(t *testing.T) {
	pair := &tokendomain.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}
	h := NewAPIHandler(&stubService{pair: pair})

	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/api/login", `{"email":"user@example.com","password":"password123"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp tokendomain.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp != *pair {
		t.Errorf("body = %+v, want %+v", resp, *pair)
	}
}

func TestAPIRefresh(t *testing.T) {
	pair := &tokendomain.TokenPair{AccessToken: "a2", RefreshToken: "r2", TokenType: "Bearer", ExpiresIn: 900}
	h := NewAPIHandler(&stubService{pair: pair})

	rec := httptest.NewRecorder()
	h.Refresh(rec, postJSON("/api/refresh", `{"refresh_token":"r1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	h = NewAPIHandler(&stubService{err: apperr.Authentication("refresh token reuse detected")})
	rec = httptest.NewRecorder()
	h.Refresh(rec, postJSON("/api/refresh", `{"refresh_token":"stolen"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("reuse status = %d, want 401", rec.Code)
	}
}

func TestAPILogoutAndMe(t *testing.T) {
	svc := &stubService{user: testUser()}
	h := NewAPIHandler(svc)

	// Without a user in context both endpoints refuse.
	rec := httptest.NewRecorder()
	h.Logout(rec, postJSON("/api/logout", ""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("logout without user: status = %d, want 401", rec.Code)
	}

	req := postJSON("/api/logout", "")
	req = req.WithContext(middleware.WithUser(req.Context(), testUser()))
	rec = httptest.NewRecorder()
	h.Logout(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}
	if svc.logoutAPICalls != 1 {
		t.Errorf("LogoutAPI calls = %d, want 1", svc.logoutAPICalls)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), testUser()))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, want 200", rec.Code)
	}
}
