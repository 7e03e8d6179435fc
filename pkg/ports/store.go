package ports

import (
	"context"

	"github.com/aretw0/fsmkit/pkg/domain"
)

// CheckpointStore defines the interface for persisting session positions.
// This allows a session to resume at its last state after a restart.
type CheckpointStore interface {
	// Save persists the checkpoint for a given session ID.
	Save(ctx context.Context, sessionID string, cp *domain.Checkpoint) error

	// Load retrieves the checkpoint for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Checkpoint, error)

	// Delete removes the checkpoint for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
