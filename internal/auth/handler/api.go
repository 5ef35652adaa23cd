package handler

import (
	"context"
	"net/http"

	"authcore/internal/apperr"
	"authcore/internal/server/middleware"
	tokendomain "authcore/internal/token/domain"
	userdomain "authcore/internal/user/domain"
)

// APIService is the slice of the auth service the API adapter needs.
type APIService interface {
	Register(ctx context.Context, email, password, name string) (*userdomain.User, error)
	LoginAPI(ctx context.Context, email, password, ip string) (*tokendomain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*tokendomain.TokenPair, error)
	LogoutAPI(ctx context.Context, userID, ip string) error
	ChangePassword(ctx context.Context, userID, current, next, ip string) error
	Deactivate(ctx context.Context, userID, ip string) error
}

// APIHandler is the machine-facing adapter: JSON in, Bearer tokens out.
type APIHandler struct {
	svc APIService
}

// NewAPIHandler returns an APIHandler over the given service.
func NewAPIHandler(svc APIService) *APIHandler {
	return &APIHandler{svc: svc}
}

// Register creates an account.
// POST /api/register
func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request) {
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

// Login authenticates and returns a fresh token pair.
// POST /api/login
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	pair, err := h.svc.LoginAPI(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates the presented refresh token into a new pair.
// POST /api/refresh
func (h *APIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Logout revokes every outstanding token for the authenticated user.
// POST /api/logout (Bearer)
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid token"))
		return
	}
	if err := h.svc.LogoutAPI(r.Context(), user.ID, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
// GET /api/me (Bearer)
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid token"))
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ChangePassword rotates the password and revokes every credential,
// including the token used to make this request.
// POST /api/password (Bearer)
func (h *APIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid token"))
		return
	}
	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Deactivate blocks the account and revokes everything.
// POST /api/deactivate (Bearer)
func (h *APIHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Authentication("invalid token"))
		return
	}
	if err := h.svc.Deactivate(r.Context(), user.ID, clientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
