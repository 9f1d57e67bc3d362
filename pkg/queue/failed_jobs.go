package queue

import (
	"context"
	"time"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
)

// maxFailedInMemory bounds the in-memory failure log.
const maxFailedInMemory = 100

// FailedJob describes a job that ran out of attempts.
type FailedJob struct {
	ID       string
	Type     string
	Payload  string
	Error    string
	Attempts int
	FailedAt time.Time
}

// FailedJobRecord is the failed_jobs row written when the Manager was built
// with WithFailedJobsDB.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobID    string    `gorm:"size:36;not null;index"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// Failed returns the most recent failures, oldest first.
func (m *Manager) Failed() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

func (m *Manager) fail(ctx context.Context, env envelope, cause error) {
	fj := FailedJob{
		ID:       env.ID,
		Type:     env.Type,
		Payload:  string(env.Payload),
		Error:    cause.Error(),
		Attempts: env.Attempts,
		FailedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.failed = append(m.failed, fj)
	if over := len(m.failed) - maxFailedInMemory; over > 0 {
		m.failed = append([]FailedJob(nil), m.failed[over:]...)
	}
	m.mu.Unlock()

	log := logger.WithCtx(ctx)
	log.Error("queue: job failed permanently", "attempts", env.Attempts, "error", cause)

	if m.db == nil {
		return
	}
	rec := FailedJobRecord{
		JobID:    fj.ID,
		JobType:  fj.Type,
		Payload:  fj.Payload,
		Error:    fj.Error,
		Attempts: fj.Attempts,
		FailedAt: fj.FailedAt,
	}
	if err := m.db.WithContext(ctx).Create(&rec).Error; err != nil {
		log.Error("queue: persist failed job", "error", err)
	}
}
