package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.CheckpointStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at Debug and failures at Warn.
// A missing session is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.CheckpointStore) ports.CheckpointStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, sessionID string, cp *domain.Checkpoint) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, cp)
	m.log(ctx, "save", sessionID, start, err, "state", cp.State, "version", cp.Version)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	start := time.Now()
	cp, err := m.next.Load(ctx, sessionID)
	m.log(ctx, "load", sessionID, start, err)
	return cp, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.log(ctx, "delete", sessionID, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err, "count", len(ids))
	return ids, err
}

func (m *loggingMiddleware) log(ctx context.Context, op, sessionID string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "duration", time.Since(start))
	if sessionID != "" {
		attrs = append(attrs, "session_id", sessionID)
	}
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.WarnContext(ctx, "checkpoint store failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "checkpoint store", attrs...)
}
