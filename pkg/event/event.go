// Package event provides the in-process domain event dispatcher.
//
//	d := event.NewDispatcher(pool)
//	d.Listen("donation.recorded", func(ctx context.Context, p any) error { ... })
//	d.DispatchAsync(ctx, "donation.recorded", donation)
package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/workerpool"
)

// Handler receives an event payload. Errors are logged, never returned to
// the code that fired the event.
type Handler func(ctx context.Context, payload any) error

// Dispatcher fans events out to their listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// NewDispatcher runs async listeners on pool. A nil pool makes every
// dispatch synchronous.
func NewDispatcher(pool *workerpool.Pool) *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}, pool: pool}
}

// Listen registers handler for name.
func (d *Dispatcher) Listen(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// HasListeners reports whether anything listens for name.
func (d *Dispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[name]) > 0
}

func (d *Dispatcher) listeners(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Handler(nil), d.handlers[name]...)
}

// Dispatch runs every listener for name in registration order before
// returning.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, payload any) {
	for _, h := range d.listeners(name) {
		d.run(ctx, name, h, payload)
	}
}

// DispatchAsync hands each listener to the worker pool. Listeners keep the
// values of ctx (request id, logger) but not its cancellation, so they
// outlive the request. A full or closed pool runs the listener inline.
func (d *Dispatcher) DispatchAsync(ctx context.Context, name string, payload any) {
	bg := context.WithoutCancel(ctx)
	for _, h := range d.listeners(name) {
		if d.pool == nil {
			d.run(bg, name, h, payload)
			continue
		}
		err := d.pool.Submit(func() { d.run(bg, name, h, payload) })
		if err != nil {
			if !errors.Is(err, workerpool.ErrPoolFull) && !errors.Is(err, workerpool.ErrPoolClosed) {
				logger.WithCtx(ctx).Warn("event: submit failed", "event", name, "error", err)
			}
			d.run(bg, name, h, payload)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, name string, h Handler, payload any) {
	log := logger.WithCtx(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("event: listener panicked",
				"event", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	if err := h(ctx, payload); err != nil {
		log.Error("event: listener failed", "event", name, "error", err)
	}
}
