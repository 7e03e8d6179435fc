package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/fsmkit/pkg/adapters/memory"
	"github.com/aretw0/fsmkit/pkg/fsm"
)

func TestManager_LockLifecycle(t *testing.T) {
	table, err := fsm.NewBuilder().
		State("off").On("toggle", "on").
		State("on").On("toggle", "off").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	mgr, err := NewManager(table, "off", memory.NewStore())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	count := 10000

	// 1. Create and Delete many sessions
	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Start(ctx, sid)
		_, _ = mgr.Dispatch(ctx, sid, "toggle")
		_ = mgr.Delete(ctx, sid)
	}

	// 2. Count locks and live sessions remaining in memory
	lockCount := len(mgr.locks)
	liveCount := len(mgr.sessions)

	t.Logf("Sessions Created: %d, Locks Leaked: %d, Sessions Leaked: %d", count, lockCount, liveCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
	if liveCount != 0 {
		t.Errorf("Memory Leak Detected: %d sessions remaining in memory after Delete", liveCount)
	}
}
