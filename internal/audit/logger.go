// Package audit records security events (login failures, token reuse, family
// revocation) for later review. Writing an event is best-effort and never
// fails the request that produced it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"authcore/internal/audit/domain"
	auditrepo "authcore/internal/audit/repository"
)

// Logger writes security events with explicit action and metadata.
type Logger interface {
	Event(ctx context.Context, userID, action, ip, metadata string)
}

// DBLogger implements Logger on top of the audit repository.
type DBLogger struct {
	repo auditrepo.Repository
}

// NewDBLogger returns a Logger that persists to repo. repo may be nil; then
// every event is dropped silently, which keeps tests free of audit wiring.
func NewDBLogger(repo auditrepo.Repository) *DBLogger {
	return &DBLogger{repo: repo}
}

// Fanout returns a Logger that forwards each event to every given logger.
func Fanout(loggers ...Logger) Logger {
	return fanout(loggers)
}

type fanout []Logger

func (f fanout) Event(ctx context.Context, userID, action, ip, metadata string) {
	for _, l := range f {
		l.Event(ctx, userID, action, ip, metadata)
	}
}

// Event writes one security event. Failures are logged and not returned.
func (l *DBLogger) Event(ctx context.Context, userID, action, ip, metadata string) {
	if l.repo == nil {
		return
	}
	e := &domain.Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Action:    action,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, e); err != nil {
		slog.Error("audit: failed to record event",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
