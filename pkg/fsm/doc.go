/*
Package fsm implements a finite-state machine with guarded transitions.

A Table is a static mapping of (state, action) pairs to a target state and a
side effect. A Machine owns the current state of one instance and applies
actions one at a time:

	table, err := fsm.NewTable(
		fsm.Entry{Transition: domain.Transition{From: "idle", Action: "start", To: "running"}},
		fsm.Entry{Transition: domain.Transition{From: "running", Action: "stop", To: "idle"}, Effect: flush},
	)
	if err != nil {
		return err // duplicate (from, action) keys are rejected here
	}

	m, err := fsm.New("idle", table)
	if err != nil {
		return err
	}

	next, err := m.Dispatch("start")

Dispatch runs the effect first and only advances when it succeeds, so the
current state never desynchronizes from the effect that was meant to produce
it. Actions without a transition are rejected with *domain.InvalidActionError
and leave the machine untouched.

A Machine performs no internal locking: one caller drives it at a time.
Hosts serving concurrent callers wrap it, see package session.
*/
package fsm
