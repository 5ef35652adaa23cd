// Package handler holds the thin HTTP adapters over the auth service: a web
// side speaking cookies and CSRF tokens, and an API side speaking Bearer
// tokens and JSON pairs.
package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"authcore/internal/apperr"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the error taxonomy to HTTP statuses. Internal errors are
// logged and never leak their cause to the client.
func writeError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case apperr.KindAuthentication:
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case apperr.KindConflict:
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case apperr.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// clientIP returns the remote host without the port. Deployments behind a
// proxy should rewrite RemoteAddr upstream; headers are not trusted here.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("malformed request body")
	}
	return nil
}
