// Package queue runs background jobs (receipt and notification mail) off the
// request path.
//
//	type DonationReceipt struct{ DonationID uint }
//	func (DonationReceipt) Name() string                      { return "mail.donation_receipt" }
//	func (j *DonationReceipt) Handle(ctx context.Context) error { ... }
//
//	q := queue.NewManager(queue.NewMemoryDriver())
//	q.Register(func() queue.Job { return &DonationReceipt{} })
//	go q.Work(ctx, 2)
//	_ = q.Dispatch(ctx, &DonationReceipt{DonationID: 1})
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/metrics"
)

// Job is a unit of background work. Jobs are JSON encoded onto the driver,
// so their exported fields are the whole of their state.
type Job interface {
	// Name identifies the job type in the registry.
	Name() string
	// Handle runs the job. A non-nil error schedules a retry.
	Handle(ctx context.Context) error
}

// Driver is the queue storage backend.
type Driver interface {
	// Push enqueues payload, to become visible after delay.
	Push(ctx context.Context, payload []byte, delay time.Duration) error
	// Pop blocks until a payload is ready. A nil payload with a nil error
	// means the wait timed out.
	Pop(ctx context.Context) ([]byte, error)
}

// ErrUnknownJob is returned by Dispatch for a job type never registered.
var ErrUnknownJob = errors.New("queue: unknown job type")

type envelope struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxAttempts sets how many times a job runs before it is failed.
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithBackoff sets the delay before retry number attempt (1-based).
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(m *Manager) { m.backoff = f }
}

// WithFailedJobsDB also writes exhausted jobs to the failed_jobs table.
func WithFailedJobsDB(db *gorm.DB) Option {
	return func(m *Manager) { m.db = db }
}

// Manager owns the job registry and the workers.
type Manager struct {
	driver      Driver
	maxAttempts int
	backoff     func(attempt int) time.Duration
	db          *gorm.DB

	mu       sync.RWMutex
	registry map[string]func() Job
	failed   []FailedJob
}

func NewManager(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:      driver,
		maxAttempts: 3,
		backoff:     func(attempt int) time.Duration { return time.Duration(attempt*attempt) * time.Second },
		registry:    map[string]func() Job{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register makes a job type decodable by workers.
func (m *Manager) Register(factory func() Job) {
	name := factory().Name()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

func (m *Manager) factory(name string) (func() Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.registry[name]
	return f, ok
}

// Dispatch enqueues job for immediate processing.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	return m.DispatchAfter(ctx, job, 0)
}

// DispatchAfter enqueues job to run once delay has passed.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	if _, ok := m.factory(job.Name()); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Name())
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", job.Name(), err)
	}
	return m.push(ctx, envelope{ID: uuid.NewString(), Type: job.Name(), Payload: payload}, delay)
}

func (m *Manager) push(ctx context.Context, env envelope, delay time.Duration) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	if err := m.driver.Push(ctx, raw, delay); err != nil {
		return fmt.Errorf("queue: push %s: %w", env.Type, err)
	}
	return nil
}

// Work runs n workers until ctx is cancelled, then waits for in-flight jobs.
func (m *Manager) Work(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	wg.Wait()
	logger.Info("queue: workers stopped")
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}
		if raw != nil {
			m.process(context.WithoutCancel(ctx), raw)
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	start := time.Now()

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}
	log := logger.L.With("job", env.Type, "job_id", env.ID)
	ctx = logger.InjectLogger(ctx, log)

	factory, ok := m.factory(env.Type)
	if !ok {
		m.fail(ctx, env, ErrUnknownJob)
		metrics.RecordQueueJob(env.Type, "failed", start)
		return
	}
	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		m.fail(ctx, env, fmt.Errorf("queue: decode payload: %w", err))
		metrics.RecordQueueJob(env.Type, "failed", start)
		return
	}

	env.Attempts++
	err := m.handle(ctx, job)
	switch {
	case err == nil:
		log.Info("queue: job processed", "attempt", env.Attempts)
		metrics.RecordQueueJob(env.Type, "success", start)
	case env.Attempts < m.maxAttempts:
		delay := m.backoff(env.Attempts)
		log.Warn("queue: job failed, retrying", "attempt", env.Attempts, "retry_in", delay.String(), "error", err)
		metrics.RecordQueueJob(env.Type, "retry", start)
		if perr := m.push(ctx, env, delay); perr != nil {
			m.fail(ctx, env, errors.Join(err, perr))
		}
	default:
		m.fail(ctx, env, err)
		metrics.RecordQueueJob(env.Type, "failed", start)
	}
}

// handle runs job, turning a panic into an error.
func (m *Manager) handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: job panicked: %v", r)
		}
	}()
	return job.Handle(ctx)
}
