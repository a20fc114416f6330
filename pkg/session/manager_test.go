package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/pipecanvas/pkg/ports"
	"github.com/aretw0/pipecanvas/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLocker records lock calls and can refuse them.
type fakeLocker struct {
	mu       sync.Mutex
	ttls     []time.Duration
	unlocked int
	fail     error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.ttls = append(f.ttls, ttl)
	return func(ctx context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unlocked++
		return ctx.Err()
	}, nil
}

func TestWithLock_SerializesSameKey(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.WithLock(ctx, "text-1", func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive)
}

func TestWithLock_DifferentKeysRunConcurrently(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()

	inside := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = mgr.WithLock(ctx, "a", func(context.Context) error {
			close(inside)
			<-done
			return nil
		})
	}()
	<-inside

	// "b" must not wait for "a".
	err := mgr.WithLock(ctx, "b", func(context.Context) error { return nil })
	close(done)
	assert.NoError(t, err)
}

func TestWithLock_Distributed(t *testing.T) {
	locker := &fakeLocker{}
	mgr := session.NewManager(session.WithLocker(locker), session.WithTTL(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	err := mgr.WithLock(ctx, "llm-1", func(context.Context) error {
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Minute}, locker.ttls)
	// Released even though the edit's context was cancelled.
	assert.Equal(t, 1, locker.unlocked)
}

func TestWithLock_DistributedFailure(t *testing.T) {
	refused := errors.New("held elsewhere")
	mgr := session.NewManager(session.WithLocker(&fakeLocker{fail: refused}))

	called := false
	err := mgr.WithLock(context.Background(), "llm-1", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, refused)
	assert.False(t, called)
}

func TestWithLock_ReturnsFnError(t *testing.T) {
	boom := errors.New("boom")
	err := session.NewManager().WithLock(context.Background(), "k", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
