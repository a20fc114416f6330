package session

import (
	"context"
	"fmt"
	"testing"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		key := fmt.Sprintf("llm-%d", i)
		_ = mgr.WithLock(ctx, key, func(context.Context) error { return nil })
		mgr.WithLocalLock(key, func() {})
	}

	// If cleaned up properly, no lock entry outlives its session.
	lockCount := len(mgr.locks)
	t.Logf("Sessions Run: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory", lockCount)
	}
}
