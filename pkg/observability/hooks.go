package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/fsmkit/pkg/domain"
)

// LoggingHooks returns hooks that log every machine event.
// Transitions and restores log at Info, rejections at Debug, effect failures at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition",
				"from", e.From,
				"action", e.Action,
				"to", e.To,
				"effect", e.Effect,
				"duration", e.Duration,
			)
		},
		OnRejected: func(ctx context.Context, e *domain.RejectionEvent) {
			logger.DebugContext(ctx, "action rejected", "state", e.State, "action", e.Action)
		},
		OnEffectFailure: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.WarnContext(ctx, "effect failed",
				"from", e.From,
				"action", e.Action,
				"effect", e.Effect,
				"err", e.Err,
			)
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			logger.InfoContext(ctx, "restore", "from", e.From, "to", e.To)
		},
	}
}

// Combine returns hooks that call each of the given hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnRejected: func(ctx context.Context, e *domain.RejectionEvent) {
			for _, h := range hooks {
				if h.OnRejected != nil {
					h.OnRejected(ctx, e)
				}
			}
		},
		OnEffectFailure: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range hooks {
				if h.OnEffectFailure != nil {
					h.OnEffectFailure(ctx, e)
				}
			}
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			for _, h := range hooks {
				if h.OnRestore != nil {
					h.OnRestore(ctx, e)
				}
			}
		},
	}
}
