// Package handler exposes the health endpoint for Kubernetes, load
// balancers, and CI.
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// Handler serves liveness/readiness checks. A nil db skips the database ping
// so the endpoint works before persistence is wired.
type Handler struct {
	db *sql.DB
}

// NewHandler returns a health Handler over the given database handle.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// HealthCheck reports service health. Returns 200 with {"status":"ok"} when
// the database responds, 503 otherwise.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
