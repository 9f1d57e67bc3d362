package queue

import (
	"context"
	"time"
)

// MemoryDriver is an in-process, channel-backed driver. Jobs do not survive
// a restart.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates a driver buffering up to 1000 ready jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, 1000)}
}

func (d *MemoryDriver) Push(ctx context.Context, payload []byte, delay time.Duration) error {
	if delay > 0 {
		time.AfterFunc(delay, func() { d.ch <- payload })
		return nil
	}
	select {
	case d.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// Len reports how many jobs are ready.
func (d *MemoryDriver) Len() int { return len(d.ch) }
