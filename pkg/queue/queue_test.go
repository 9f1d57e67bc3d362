package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/pkg/database"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
)

var (
	handled  atomic.Int32
	attempts atomic.Int32
)

type receiptJob struct {
	DonationID uint `json:"donation_id"`
}

func (receiptJob) Name() string { return "test.receipt" }

func (j *receiptJob) Handle(context.Context) error {
	if j.DonationID == 0 {
		return errors.New("no donation")
	}
	handled.Add(1)
	return nil
}

type flakyJob struct {
	FailTimes int32 `json:"fail_times"`
}

func (flakyJob) Name() string { return "test.flaky" }

func (j *flakyJob) Handle(context.Context) error {
	if attempts.Add(1) <= j.FailTimes {
		return errors.New("smtp unavailable")
	}
	return nil
}

func newManager(opts ...queue.Option) *queue.Manager {
	opts = append([]queue.Option{queue.WithBackoff(func(int) time.Duration { return time.Millisecond })}, opts...)
	m := queue.NewManager(queue.NewMemoryDriver(), opts...)
	m.Register(func() queue.Job { return &receiptJob{} })
	m.Register(func() queue.Job { return &flakyJob{} })
	return m
}

func startWorkers(t *testing.T, m *queue.Manager) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Work(ctx, 2)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestDispatchIsProcessed(t *testing.T) {
	handled.Store(0)
	m := newManager()
	startWorkers(t, m)

	require.NoError(t, m.Dispatch(context.Background(), &receiptJob{DonationID: 4}))
	assert.Eventually(t, func() bool { return handled.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestDispatchUnknownJob(t *testing.T) {
	m := queue.NewManager(queue.NewMemoryDriver())
	err := m.Dispatch(context.Background(), &receiptJob{DonationID: 1})
	assert.ErrorIs(t, err, queue.ErrUnknownJob)
}

func TestRetriesThenSucceeds(t *testing.T) {
	attempts.Store(0)
	m := newManager()
	startWorkers(t, m)

	require.NoError(t, m.Dispatch(context.Background(), &flakyJob{FailTimes: 2}))
	assert.Eventually(t, func() bool { return attempts.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, m.Failed())
}

func TestExhaustedJobIsRecorded(t *testing.T) {
	attempts.Store(0)
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&queue.FailedJobRecord{}))

	m := newManager(queue.WithMaxAttempts(2), queue.WithFailedJobsDB(db))
	startWorkers(t, m)

	require.NoError(t, m.Dispatch(context.Background(), &flakyJob{FailTimes: 10}))
	require.Eventually(t, func() bool { return len(m.Failed()) == 1 }, 2*time.Second, 10*time.Millisecond)

	failed := m.Failed()[0]
	assert.Equal(t, "test.flaky", failed.Type)
	assert.Equal(t, 2, failed.Attempts)
	assert.Equal(t, "smtp unavailable", failed.Error)
	assert.Equal(t, int32(2), attempts.Load())

	var rows []queue.FailedJobRecord
	require.Eventually(t, func() bool {
		return db.Find(&rows).Error == nil && len(rows) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, failed.ID, rows[0].JobID)
}

func TestDispatchAfterDelays(t *testing.T) {
	handled.Store(0)
	m := newManager()
	startWorkers(t, m)

	require.NoError(t, m.DispatchAfter(context.Background(), &receiptJob{DonationID: 9}, 50*time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), handled.Load())
	assert.Eventually(t, func() bool { return handled.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWorkStopsOnCancel(t *testing.T) {
	m := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Work(ctx, 3)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}
