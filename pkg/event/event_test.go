package event_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/pkg/event"
	"github.com/shashiranjanraj/shashikala/pkg/workerpool"
)

func TestDispatchRunsListenersInOrder(t *testing.T) {
	d := event.NewDispatcher(nil)
	var got []string
	d.Listen("donation.recorded", func(_ context.Context, p any) error {
		got = append(got, "first:"+p.(string))
		return nil
	})
	d.Listen("donation.recorded", func(_ context.Context, p any) error {
		got = append(got, "second:"+p.(string))
		return errors.New("ignored")
	})
	d.Listen("contact.received", func(context.Context, any) error {
		t.Fatal("wrong event")
		return nil
	})

	d.Dispatch(context.Background(), "donation.recorded", "asha")
	assert.Equal(t, []string{"first:asha", "second:asha"}, got)
	assert.True(t, d.HasListeners("contact.received"))
	assert.False(t, d.HasListeners("artist.signed_up"))
}

func TestDispatchSurvivesPanics(t *testing.T) {
	d := event.NewDispatcher(nil)
	var after atomic.Bool
	d.Listen("x", func(context.Context, any) error { panic("boom") })
	d.Listen("x", func(context.Context, any) error { after.Store(true); return nil })

	assert.NotPanics(t, func() { d.Dispatch(context.Background(), "x", nil) })
	assert.True(t, after.Load())
}

func TestDispatchAsyncOutlivesRequestContext(t *testing.T) {
	pool := workerpool.New("events", 2)
	defer pool.Shutdown(context.Background()) //nolint:errcheck
	d := event.NewDispatcher(pool)

	var wg sync.WaitGroup
	wg.Add(1)
	var ctxErr error
	d.Listen("registration.created", func(ctx context.Context, _ any) error {
		defer wg.Done()
		ctxErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.DispatchAsync(ctx, "registration.created", nil)
	cancel()
	wg.Wait()
	assert.NoError(t, ctxErr)
}

func TestDispatchAsyncFallsBackInlineWhenClosed(t *testing.T) {
	pool := workerpool.New("events", 1)
	require.NoError(t, pool.Shutdown(context.Background()))
	d := event.NewDispatcher(pool)

	ran := make(chan struct{}, 1)
	d.Listen("cart.item_added", func(context.Context, any) error {
		ran <- struct{}{}
		return nil
	})
	d.DispatchAsync(context.Background(), "cart.item_added", nil)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("listener did not run")
	}
}
