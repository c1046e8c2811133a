package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsTasks(t *testing.T) {
	pool := NewPool(2, 10)

	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.True(t, pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			n.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(5), n.Load())
	require.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_SubmitDoesNotBlockWhenFull(t *testing.T) {
	pool := NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.True(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started
	require.True(t, pool.Submit(func(ctx context.Context) {})) // fills the queue

	begin := time.Now()
	ok := pool.Submit(func(ctx context.Context) {})
	assert.False(t, ok)
	assert.Less(t, time.Since(begin), 50*time.Millisecond)
	assert.Equal(t, int64(1), pool.Dropped())
	assert.Equal(t, 1, pool.Active())

	close(release)
	require.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_ShutdownDrains(t *testing.T) {
	pool := NewPool(1, 10)

	var n atomic.Int32
	for i := 0; i < 3; i++ {
		pool.Submit(func(ctx context.Context) {
			time.Sleep(10 * time.Millisecond)
			n.Add(1)
		})
	}

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int32(3), n.Load())
	assert.False(t, pool.Submit(func(ctx context.Context) {}))
	assert.ErrorIs(t, pool.Shutdown(context.Background()), ErrPoolClosed)
}

func TestPool_ShutdownTimeoutCancelsTasks(t *testing.T) {
	pool := NewPool(1, 1)
	cancelled := make(chan struct{})

	pool.Submit(func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
}

func TestPool_RecoversPanics(t *testing.T) {
	pool := NewPool(1, 2)
	done := make(chan struct{})

	pool.Submit(func(ctx context.Context) { panic("boom") })
	pool.Submit(func(ctx context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool stopped after a panicking task")
	}
	require.NoError(t, pool.Shutdown(context.Background()))
}
