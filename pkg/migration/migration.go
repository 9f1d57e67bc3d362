// Package migration provides a batched database migration runner.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_create_artists_table", &CreateArtistsTable{})
//	}
//
//	type CreateArtistsTable struct{}
//	func (m *CreateArtistsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Artist{}) }
//	func (m *CreateArtistsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("artists") }
//
// Run from CLI:
//
//	shashikala migrate             // run all pending
//	shashikala migrate:rollback    // rollback last batch
//	shashikala migrate:status
package migration

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

// Status describes one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []registeredMigration
)

// Register adds a migration to the global registry. name should be
// timestamp-prefixed; migrations run in name order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	for _, reg := range registry {
		if reg.name == name {
			panic(fmt.Sprintf("migration: %s registered twice", name))
		}
	}
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	mu.Lock()
	out := make([]registeredMigration, len(registry))
	copy(out, registry)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by the provided gorm.DB.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) ranRecords() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations that have not yet been run, in name order.
func (r *Runner) Pending() ([]string, error) {
	ran, err := r.ranRecords()
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, reg := range registered() {
		if _, ok := ran[reg.name]; !ok {
			pending = append(pending, reg.name)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch and returns their names.
// Each migration and its tracking row commit together.
func (r *Runner) Run() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	ran, err := r.ranRecords()
	if err != nil {
		return nil, fmt.Errorf("migration: fetch ran: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	batch++

	var done []string
	for _, reg := range registered() {
		if _, ok := ran[reg.name]; ok {
			continue
		}
		logger.Info("migration: running", "name", reg.name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return fmt.Errorf("migration: %s up: %w", reg.name, err)
			}
			if err := tx.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
				return fmt.Errorf("migration: record %s: %w", reg.name, err)
			}
			return nil
		})
		if err != nil {
			return done, err
		}
		done = append(done, reg.name)
	}

	if len(done) == 0 {
		logger.Debug("migration: nothing to migrate")
	} else {
		logger.Info("migration: done", "ran", len(done), "batch", batch)
	}
	return done, nil
}

// Rollback reverses every migration in the most recent batch, newest first,
// and returns their names.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil || batch == 0 {
		return nil, err
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}

	regMap := make(map[string]Migration)
	for _, reg := range registered() {
		regMap[reg.name] = reg.m
	}

	var done []string
	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return done, fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("migration: %s down: %w", rec.Name, err)
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return done, err
		}
		done = append(done, rec.Name)
	}
	return done, nil
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	ran, err := r.ranRecords()
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, reg := range registered() {
		rec, ok := ran[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var maxBatch struct{ Max int }
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return maxBatch.Max, nil
}
