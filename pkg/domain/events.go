package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition    EventType = "transition"
	EventRejected      EventType = "rejected"
	EventEffectFailure EventType = "effect_failure"
	EventRestore       EventType = "restore"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TransitionEvent describes a dispatched action.
// For EventEffectFailure, To is the target that was not reached and Err holds the cause.
type TransitionEvent struct {
	EventBase
	From     StateID       `json:"from"`
	Action   ActionID      `json:"action"`
	To       StateID       `json:"to"`
	Effect   string        `json:"effect,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// RejectionEvent describes an action that was not valid in the current state.
type RejectionEvent struct {
	EventBase
	State  StateID  `json:"state"`
	Action ActionID `json:"action"`
}

// RestoreEvent describes a machine re-positioned from a snapshot.
type RestoreEvent struct {
	EventBase
	From StateID `json:"from"`
	To   StateID `json:"to"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnTransition    func(context.Context, *TransitionEvent)
	OnRejected      func(context.Context, *RejectionEvent)
	OnEffectFailure func(context.Context, *TransitionEvent)
	OnRestore       func(context.Context, *RestoreEvent)
}
