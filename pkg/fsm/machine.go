package fsm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/fsmkit/internal/logging"
	"github.com/aretw0/fsmkit/pkg/domain"
)

// Machine owns the current state of one state machine instance.
// It is not safe for concurrent use.
type Machine struct {
	table   *Table
	current domain.StateID

	dispatching bool

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// New creates a machine positioned at initial.
// It fails with domain.ErrUnknownInitialState when initial has no outgoing
// transition in the table.
func New(initial domain.StateID, table *Table, opts ...Option) (*Machine, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", domain.ErrInvalidEntry)
	}
	if !table.IsSource(initial) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownInitialState, initial)
	}

	m := &Machine{
		table:   table,
		current: initial,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CurrentState returns the active state.
func (m *Machine) CurrentState() domain.StateID {
	return m.current
}

// Table returns the transition table driving the machine.
func (m *Machine) Table() *Table {
	return m.table
}

// Accepts reports whether action is valid in the current state.
func (m *Machine) Accepts(action domain.ActionID) bool {
	_, ok := m.table.Lookup(m.current, action)
	return ok
}

// Available returns the actions valid in the current state, sorted.
func (m *Machine) Available() []domain.ActionID {
	return m.table.Actions(m.current)
}

// Dispatch applies an action. See DispatchContext.
func (m *Machine) Dispatch(action domain.ActionID) (domain.StateID, error) {
	return m.DispatchContext(context.Background(), action)
}

// DispatchContext applies an action to the current state.
//
// When the pair is in the table the effect runs exactly once and, only if it
// succeeds, the machine moves to the target state which is returned.
// When the pair is absent the machine is unchanged and a *domain.InvalidActionError
// is returned together with the current state. When the effect fails the machine
// is unchanged and a *domain.EffectError is returned.
//
// The context is only handed to lifecycle hooks and the logger.
func (m *Machine) DispatchContext(ctx context.Context, action domain.ActionID) (domain.StateID, error) {
	from := m.current
	if m.dispatching {
		return from, fmt.Errorf("%w: action %q dispatched from an effect", domain.ErrReentrantDispatch, action)
	}

	entry, ok := m.table.Lookup(from, action)
	if !ok {
		m.logger.DebugContext(ctx, "action rejected", "state", from, "action", action)
		m.emitRejected(ctx, from, action)
		return from, &domain.InvalidActionError{State: from, Action: action}
	}

	m.dispatching = true
	start := time.Now()
	err := runEffect(entry.Effect)
	elapsed := time.Since(start)
	m.dispatching = false

	if err != nil {
		m.logger.WarnContext(ctx, "effect failed",
			"state", from,
			"action", action,
			"target", entry.To,
			"err", err,
		)
		m.emitTransition(ctx, domain.EventEffectFailure, entry, elapsed, err)
		return from, &domain.EffectError{State: from, Action: action, Err: err}
	}

	m.current = entry.To
	m.logger.DebugContext(ctx, "transitioned", "from", from, "action", action, "to", entry.To)
	m.emitTransition(ctx, domain.EventTransition, entry, elapsed, nil)
	return entry.To, nil
}

// Restore re-positions the machine at a state taken from a snapshot.
// No effect runs. The state must be known to the table.
func (m *Machine) Restore(state domain.StateID) error {
	return m.RestoreContext(context.Background(), state)
}

// RestoreContext is Restore with a context for hooks and logging.
func (m *Machine) RestoreContext(ctx context.Context, state domain.StateID) error {
	if m.dispatching {
		return fmt.Errorf("%w: restore to %q from an effect", domain.ErrReentrantDispatch, state)
	}
	if !m.table.HasState(state) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownState, state)
	}

	from := m.current
	m.current = state
	m.logger.DebugContext(ctx, "restored", "from", from, "to", state)
	if m.hooks.OnRestore != nil {
		m.hooks.OnRestore(ctx, &domain.RestoreEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRestore},
			From:      from,
			To:        state,
		})
	}
	return nil
}

func runEffect(effect domain.Effect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("effect panicked: %v", r)
		}
	}()
	return effect.Run()
}

func (m *Machine) emitRejected(ctx context.Context, state domain.StateID, action domain.ActionID) {
	if m.hooks.OnRejected == nil {
		return
	}
	m.hooks.OnRejected(ctx, &domain.RejectionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRejected},
		State:     state,
		Action:    action,
	})
}

func (m *Machine) emitTransition(ctx context.Context, typ domain.EventType, entry Entry, elapsed time.Duration, err error) {
	hook := m.hooks.OnTransition
	if typ == domain.EventEffectFailure {
		hook = m.hooks.OnEffectFailure
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		From:      entry.From,
		Action:    entry.Action,
		To:        entry.To,
		Effect:    entry.EffectName,
		Duration:  elapsed,
		Err:       err,
	})
}
