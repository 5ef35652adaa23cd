// server is the authentication service entrypoint: config, telemetry,
// database, repositories, auth service, HTTP router, cleanup jobs, and
// graceful shutdown.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditlog "authcore/internal/audit"
	auditrepo "authcore/internal/audit/repository"
	authhandler "authcore/internal/auth/handler"
	"authcore/internal/auth/service"
	"authcore/internal/config"
	"authcore/internal/db"
	"authcore/internal/jobs"
	"authcore/internal/security"
	"authcore/internal/server"
	sessionrepo "authcore/internal/session/repository"
	"authcore/internal/telemetry/otel"
	tokenrepo "authcore/internal/token/repository"
	userrepo "authcore/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "authcore", false)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	tokens := tokenrepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)

	hasher := security.NewHasher(cfg.BcryptCost)
	provider, err := security.NewTokenProvider(
		[]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTTL(), cfg.RefreshTTL(),
	)
	if err != nil {
		log.Fatalf("token provider: %v", err)
	}

	audit := auditlog.Logger(auditlog.NewDBLogger(audits))
	if emitter := otel.NewAuditEmitter(providers.LoggerProvider); emitter != nil {
		audit = auditlog.Fanout(audit, emitter)
	}

	auth := service.NewAuthService(
		users, sessions, tokens, audits,
		hasher, provider, audit,
		cfg.SessionTTL(), cfg.SessionSliding,
	)

	router := server.NewRouter(&server.Deps{
		Auth:   auth,
		DB:     conn,
		Logger: logger,
		Web: authhandler.WebConfig{
			CookieSecure:  cfg.SecureCookies,
			SessionMaxAge: int(cfg.SessionTTL().Seconds()),
		},
	})

	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	go jobs.NewSweep("sessions", sessions, cfg.SessionCleanup(), logger).Run(jobCtx)
	go jobs.NewSweep("tokens", tokens, cfg.TokenCleanup(), logger).Run(jobCtx)

	srv := server.New(cfg.HTTPAddr, router)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down http server")
	stopJobs()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}
	logger.Info("http server stopped")
}
