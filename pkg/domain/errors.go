package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned when an action has no transition from the current state.
	// The machine state is unaffected.
	ErrInvalidAction = errors.New("invalid action")

	// ErrDuplicateTransition is returned when a table declares the same (from, action) pair twice.
	ErrDuplicateTransition = errors.New("duplicate transition")

	// ErrUnknownInitialState is returned when a machine is created at a state that
	// is not the source of any transition.
	ErrUnknownInitialState = errors.New("unknown initial state")

	// ErrEffectFailure is returned when the side effect of a transition fails.
	// The machine state is unaffected.
	ErrEffectFailure = errors.New("effect failure")

	// ErrUnknownState is returned when restoring a state the table does not know.
	ErrUnknownState = errors.New("unknown state")

	// ErrInvalidEntry is returned for malformed table entries (empty identifiers, nil table).
	ErrInvalidEntry = errors.New("invalid transition entry")

	// ErrUnknownEffect is returned when a named effect is not registered.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNothingToUndo is returned when a session history has no earlier snapshot.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrReentrantDispatch is returned when an effect dispatches on the machine that is running it.
	ErrReentrantDispatch = errors.New("reentrant dispatch")

	// ErrNothingToRedo is returned when a session history has no later snapshot.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// InvalidActionError reports an action that is not valid in a state.
type InvalidActionError struct {
	State  StateID
	Action ActionID
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("action %q is not valid in state %q", e.Action, e.State)
}

// Is makes errors.Is(err, ErrInvalidAction) true.
func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

// DuplicateTransitionError reports a (from, action) key declared more than once.
type DuplicateTransitionError struct {
	From   StateID
	Action ActionID
}

func (e *DuplicateTransitionError) Error() string {
	return fmt.Sprintf("duplicate transition for state %q and action %q", e.From, e.Action)
}

// Is makes errors.Is(err, ErrDuplicateTransition) true.
func (e *DuplicateTransitionError) Is(target error) bool {
	return target == ErrDuplicateTransition
}

// EffectError reports a side effect that failed while dispatching an action.
type EffectError struct {
	State  StateID
	Action ActionID
	Err    error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("effect for action %q in state %q failed: %v", e.Action, e.State, e.Err)
}

// Is makes errors.Is(err, ErrEffectFailure) true.
func (e *EffectError) Is(target error) bool {
	return target == ErrEffectFailure
}

// Unwrap exposes the cause returned by the effect.
func (e *EffectError) Unwrap() error {
	return e.Err
}
