/*
Package fsmkit is a table-driven finite state machine toolkit.

A machine is declared as a transition table: a set of (state, action) pairs,
each with a target state and an optional side effect. Dispatching an action
either follows the matching transition (running its effect exactly once, and
moving only if the effect succeeds) or is rejected without touching the machine.
A cursor-based history stack records snapshots of the machine so callers can
undo and redo without re-running effects.

# Packages

  - pkg/domain: state and action identifiers, effects, snapshots, checkpoints, events and errors.
  - pkg/fsm: the transition Table, a fluent Builder and the Machine.
  - pkg/history: the generic undo/redo Stack.
  - pkg/schema and pkg/registry: tables declared in YAML or JSON, with named effects.
  - pkg/session: many named machines behind per-session locks, persisted as checkpoints.
  - pkg/adapters: in-memory and Redis checkpoint stores, a Redis lock and an HTTP API.
  - pkg/observability: logging and Prometheus lifecycle hooks.

# Usage

	table, err := fsm.NewBuilder().
		State("WaitingForMoney").On("insertMoney", "ProductSelected").
		State("ProductSelected").On("selectProduct", "DispensingProduct").
		State("DispensingProduct").On("dispenseProduct", "WaitingForMoney").Do("dispense", dispense).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	m, err := fsm.New("WaitingForMoney", table)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := m.Dispatch("selectProduct"); errors.Is(err, domain.ErrInvalidAction) {
		fmt.Println("insert money first")
	}

Machines do no locking. Use a session.Manager, or your own mutex, when several
goroutines drive the same machine.
*/
package fsmkit
