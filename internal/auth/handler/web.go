package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"authcore/internal/apperr"
	auditdomain "authcore/internal/audit/domain"
	"authcore/internal/server/middleware"
	sessiondomain "authcore/internal/session/domain"
	userdomain "authcore/internal/user/domain"
)

// WebService is the slice of the auth service the web adapter needs.
type WebService interface {
	Register(ctx context.Context, email, password, name string) (*userdomain.User, error)
	LoginWeb(ctx context.Context, email, password, ip, userAgent string) (*sessiondomain.Session, error)
	LogoutWeb(ctx context.Context, sessionID, ip string) error
	ChangePassword(ctx context.Context, userID, current, next, ip string) error
	Deactivate(ctx context.Context, userID, ip string) error
	GetUser(ctx context.Context, id string) (*userdomain.User, error)
	SecurityEvents(ctx context.Context, userID string, limit, offset int32) ([]*auditdomain.Event, error)
}

// WebConfig carries cookie policy for the web adapter.
type WebConfig struct {
	// CookieSecure sets the Secure attribute. Disable only for local
	// development over plain HTTP.
	CookieSecure bool
	// SessionMaxAge is the session cookie lifetime in seconds. Should match
	// the session TTL so cookie and server-side expiry agree.
	SessionMaxAge int
}

// WebHandler is the browser-facing adapter: session cookie plus CSRF token.
type WebHandler struct {
	svc    WebService
	config WebConfig
}

// NewWebHandler returns a WebHandler over the given service.
func NewWebHandler(svc WebService, config WebConfig) *WebHandler {
	return &WebHandler{svc: svc, config: config}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         string(u.Email),
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
	}
}

// Register creates an account.
// POST /web/register
func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type webLoginResponse struct {
	CsrfToken string `json:"csrf_token"`
}

// Login authenticates and starts a session. The session id travels in an
// HTTP-only cookie; the CSRF token travels in the body so the client can
// echo it in the X-CSRF-Token header.
// POST /web/login
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.svc.LoginWeb(r.Context(), req.Email, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, sess.ID, h.config.SessionMaxAge)
	writeJSON(w, http.StatusOK, webLoginResponse{CsrfToken: sess.CsrfToken})
}

// Logout ends the session and clears the cookie.
// POST /web/logout (session + CSRF)
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid session"))
		return
	}
	if err := h.svc.LogoutWeb(r.Context(), sess.ID, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
// GET /web/me (session)
func (h *WebHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid session"))
		return
	}
	user, err := h.svc.GetUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword rotates the password. The session dies with the old
// credentials, so the cookie is cleared and the client must log in again.
// POST /web/password (session + CSRF)
func (h *WebHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid session"))
		return
	}
	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), sess.UserID, req.CurrentPassword, req.NewPassword, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// Deactivate blocks the account and revokes everything.
// POST /web/deactivate (session + CSRF)
func (h *WebHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid session"))
		return
	}
	if err := h.svc.Deactivate(r.Context(), sess.UserID, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	h.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

type securityEventResponse struct {
	Action    string    `json:"action"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SecurityEvents lists the account's security event history, newest first.
// GET /web/security-events?limit=&offset= (session)
func (h *WebHandler) SecurityEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid session"))
		return
	}
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	events, err := h.svc.SecurityEvents(r.Context(), sess.UserID, int32(limit), int32(offset))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]securityEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, securityEventResponse{
			Action:    e.Action,
			IP:        e.IP,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// queryInt reads an integer query parameter, falling back to def when absent
// or unparseable.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (h *WebHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
