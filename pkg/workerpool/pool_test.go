package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/pkg/workerpool"
)

func TestSubmitWaitRunsEverything(t *testing.T) {
	pool := workerpool.New("test", 4)
	defer pool.Shutdown(context.Background()) //nolint:errcheck

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(n), count.Load())
}

func TestSubmitReportsFull(t *testing.T) {
	pool := workerpool.New("test", 1)
	blocker := make(chan struct{})
	started := make(chan struct{})
	defer func() {
		close(blocker)
		_ = pool.Shutdown(context.Background())
	}()

	require.NoError(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	// Buffer holds two tasks for a one-worker pool.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.SubmitWait(ctx, func() {}), context.DeadlineExceeded)
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New("test", 2)
	require.NoError(t, pool.Shutdown(context.Background()))
	require.NoError(t, pool.Shutdown(context.Background()), "second shutdown is a no-op")

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(context.Background(), func() {}), workerpool.ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown(context.Background()) //nolint:errcheck

	require.NoError(t, pool.Submit(func() { panic("listener blew up") }))

	ran := make(chan struct{})
	require.NoError(t, pool.SubmitWait(context.Background(), func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestShutdownDrainsAndHonoursDeadline(t *testing.T) {
	pool := workerpool.New("test", 2)
	var done atomic.Int64
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			done.Add(1)
		}))
	}
	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int64(4), done.Load())

	slow := workerpool.New("slow", 1)
	release := make(chan struct{})
	require.NoError(t, slow.Submit(func() { <-release }))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := slow.Shutdown(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	close(release)
}
