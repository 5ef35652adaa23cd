// Package jobs runs the background sweeps that keep the session and token
// tables from growing without bound. Expired rows are dead weight only;
// correctness never depends on these jobs running.
package jobs

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredDeleter deletes rows that expired before cutoff and reports how
// many were removed. Both the session and token repositories satisfy it.
type ExpiredDeleter interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweep periodically deletes expired rows from one store.
type Sweep struct {
	name     string
	store    ExpiredDeleter
	interval time.Duration
	logger   *slog.Logger
}

// NewSweep returns a Sweep that deletes rows from store every interval.
func NewSweep(name string, store ExpiredDeleter, interval time.Duration, logger *slog.Logger) *Sweep {
	return &Sweep{name: name, store: store, interval: interval, logger: logger}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweep) Run(ctx context.Context) {
	s.sweep(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep deletes everything that expired before now. Idempotent: deleting
// already-gone rows is a no-op.
func (s *Sweep) sweep(ctx context.Context) {
	n, err := s.store.DeleteExpiredBefore(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("cleanup sweep failed",
			slog.String("job", s.name),
			slog.String("error", err.Error()),
		)
		return
	}
	if n > 0 {
		s.logger.Info("cleanup sweep completed",
			slog.String("job", s.name),
			slog.Int64("deleted", n),
		)
	}
}
