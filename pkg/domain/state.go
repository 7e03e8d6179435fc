package domain

import "time"

// StateID names a state. It must be unique within one machine's table.
type StateID string

// Snapshot is a point-in-time copy of a machine's mutable data: the active
// state plus any domain payload owned by the caller (text, counters...).
// Snapshots must never share mutable storage with live data; callers holding
// reference-typed payloads supply a deep copy through the history stack.
type Snapshot[P any] struct {
	State   StateID `json:"state"`
	Payload P       `json:"payload"`
}

// NewSnapshot creates a snapshot for the given state and payload.
func NewSnapshot[P any](state StateID, payload P) Snapshot[P] {
	return Snapshot[P]{State: state, Payload: payload}
}

// Checkpoint is the persisted position of a named session.
// Version increases on every change (dispatch, undo, redo).
// It is what the checkpoint stores save and load; history is never part of it.
type Checkpoint struct {
	SessionID string    `json:"session_id"`
	State     StateID   `json:"state"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCheckpoint creates a checkpoint positioned at the given state.
func NewCheckpoint(sessionID string, state StateID) *Checkpoint {
	return &Checkpoint{
		SessionID: sessionID,
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}
}
