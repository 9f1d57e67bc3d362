// Package seeders provides a registry of database seed functions.
//
// Usage (define a seeder in any file in this package):
//
//	func init() {
//	    seeders.Register("demo_artist", seedDemoArtist)
//	}
//
// Then run via CLI: shashikala seed
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
)

// SeederFunc is the signature for a seed function. Seeders must be safe to
// run more than once.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
// Call this from init() in your seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order, each in its
// own transaction. It stops on the first error and returns the names that
// completed.
func RunAll(db *gorm.DB) ([]string, error) {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	var done []string
	for _, e := range current {
		if err := db.Transaction(func(tx *gorm.DB) error { return e.fn(tx) }); err != nil {
			return done, fmt.Errorf("seeder %q: %w", e.name, err)
		}
		logger.Info("seeder: done", "name", e.name)
		done = append(done, e.name)
	}
	return done, nil
}
