package pool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsTasks(t *testing.T) {
	p := New(2, 8)
	var count atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) { count.Add(1) }))
	}

	require.NoError(t, p.Shutdown(time.Second))
	assert.Equal(t, int32(5), count.Load())
}

func TestPool_Saturation(t *testing.T) {
	p := New(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, p.Submit(func(ctx context.Context) {}))

	err := p.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, ErrSaturated)
	assert.Equal(t, int64(1), p.Stats().Rejected)

	close(release)
	require.NoError(t, p.Shutdown(time.Second))
}

func TestPool_ZeroQueueAcceptsWhenIdle(t *testing.T) {
	p := New(1, 0)
	ran := make(chan struct{})

	require.NoError(t, p.Submit(func(ctx context.Context) { close(ran) }))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	assert.Zero(t, p.Stats().Rejected)
	require.NoError(t, p.Shutdown(time.Second))
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := New(1, 1)
	require.NoError(t, p.Shutdown(time.Second))
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrClosed)
	// Second shutdown is harmless.
	require.NoError(t, p.ShutdownNow(time.Second))
}

func TestPool_ShutdownNowCancelsTasks(t *testing.T) {
	p := New(1, 1)
	started := make(chan struct{})
	cancelled := make(chan struct{})

	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	}))
	<-started

	err := p.Shutdown(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, p.ShutdownNow(time.Second))
	select {
	case <-cancelled:
	default:
		t.Fatal("task did not observe cancellation")
	}
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	p := New(1, 2)
	ran := make(chan struct{})

	require.NoError(t, p.Submit(func(ctx context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(ctx context.Context) { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker died after panic")
	}
	require.NoError(t, p.Shutdown(time.Second))
	assert.Equal(t, int64(1), p.Stats().Panics)
}
