/*
Package domain contains the core domain models of the fsmkit state machine engine.

It defines the vocabulary shared by every other package: state and action
identifiers, side effects, snapshots, checkpoints, lifecycle events and the
error taxonomy. This package is kept pure and free of external dependencies
like I/O or persistence.

# Key Entities

  - StateID / ActionID: opaque identifiers of states and input events.
  - Transition: the declarative (from, action) -> to edge of a table.
  - Effect: the side effect executed when a transition is taken.
  - Snapshot: an immutable copy of a machine's state plus caller payload.
  - Checkpoint: the persisted position of a named session.
*/
package domain
