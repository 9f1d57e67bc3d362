package orm

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/pkg/logger"
)

type txKey struct{}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Tx is the gorm-backed Transactor. The open transaction travels in the
// context handed to fn, so repositories called from fn join it.
type Tx struct {
	db *gorm.DB
}

func NewTx(db *gorm.DB) *Tx { return &Tx{db: db} }

// InTx commits when fn returns nil and rolls back otherwise. A call made
// while a transaction is already bound to ctx joins it.
func (t *Tx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil {
		logger.WithCtx(ctx).Debug("transaction rolled back", "error", err)
	}
	return err
}

// Conn returns the transaction bound to ctx, or db scoped to ctx.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
