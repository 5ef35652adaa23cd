// Package server assembles the chi router and owns the HTTP listener
// lifecycle.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authhandler "authcore/internal/auth/handler"
	"authcore/internal/auth/service"
	healthhandler "authcore/internal/health/handler"
	"authcore/internal/server/middleware"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth   *service.AuthService
	DB     *sql.DB
	Logger *slog.Logger
	Web    authhandler.WebConfig
}

// NewRouter builds the full route tree.
//
// Middleware order: Recovery, SecurityHeaders, Logging on everything; then
// SessionAuth (+ RequireCsrf on state-changing routes) for /web and
// BearerAuth for protected /api routes. Login, register, refresh, and
// healthz stay outside the auth gates.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Logging(deps.Logger))

	health := healthhandler.NewHandler(deps.DB)
	r.Get("/healthz", health.HealthCheck)

	web := authhandler.NewWebHandler(deps.Auth, deps.Web)
	r.Route("/web", func(r chi.Router) {
		r.Post("/register", web.Register)
		r.Post("/login", web.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(deps.Auth))
			r.Get("/me", web.Me)
			r.Get("/security-events", web.SecurityEvents)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCsrf(deps.Auth))
				r.Post("/logout", web.Logout)
				r.Post("/password", web.ChangePassword)
				r.Post("/deactivate", web.Deactivate)
			})
		})
	})

	api := authhandler.NewAPIHandler(deps.Auth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", api.Register)
		r.Post("/login", api.Login)
		r.Post("/refresh", api.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(deps.Auth))
			r.Get("/me", api.Me)
			r.Post("/logout", api.Logout)
			r.Post("/password", api.ChangePassword)
			r.Post("/deactivate", api.Deactivate)
		})
	})

	return r
}

// Server wraps http.Server with sane timeouts and graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// New returns a Server listening on addr and serving handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. A closed-server error is returned as-is for the caller to swallow.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
