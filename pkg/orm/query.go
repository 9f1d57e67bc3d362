package orm

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("orm: record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("orm: duplicate key")
	// ErrForeignKey is returned when a foreign key constraint rejects a write.
	ErrForeignKey = errors.New("orm: foreign key violation")
)

// Scope narrows a query, e.g. a WHERE clause or an eager load.
type Scope = func(*gorm.DB) *gorm.DB

// Where returns a Scope adding a WHERE condition.
func Where(query string, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// Preload returns a Scope eager-loading an association.
func Preload(association string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(association) }
}

// Select returns a Scope restricting the selected columns.
func Select(columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Select(columns) }
}

// Page is a limit/offset window. Limit <= 0 means no limit.
type Page struct {
	Limit  int
	Offset int
}

// Pagination describes the window that was served and the full row count.
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// Paginate returns a Scope applying p.
func Paginate(p Page) Scope { return p.apply }

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

// Translate maps gorm and driver errors onto the package sentinels.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicate, err)
	}

	// Foreign key failures and drivers without a translator still carry
	// recognisable text.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"), strings.Contains(msg, "duplicate entry"):
		return errors.Join(ErrDuplicate, err)
	case strings.Contains(msg, "foreign key constraint"), strings.Contains(msg, "violates foreign key"):
		return errors.Join(ErrForeignKey, err)
	}
	return err
}
