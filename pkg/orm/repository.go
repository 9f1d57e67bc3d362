package orm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the create/get/list/update/delete core shared by the entity
// repositories. T is a gorm model with an integer primary key named ID.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) Repository[T] {
	return Repository[T]{db: db}
}

// Conn returns the connection for ctx, joining any open transaction.
func (r Repository[T]) Conn(ctx context.Context) *gorm.DB {
	return Conn(ctx, r.db)
}

// Create inserts v and fills in its generated columns. Associations are
// never written through.
func (r Repository[T]) Create(ctx context.Context, v *T) error {
	return Translate(r.Conn(ctx).Omit(clause.Associations).Create(v).Error)
}

// Find loads the row with primary key id.
func (r Repository[T]) Find(ctx context.Context, id uint, scopes ...Scope) (*T, error) {
	var v T
	if err := r.Conn(ctx).Scopes(scopes...).First(&v, id).Error; err != nil {
		return nil, Translate(err)
	}
	return &v, nil
}

// FindBy loads the first row matching scopes in primary key order.
func (r Repository[T]) FindBy(ctx context.Context, scopes ...Scope) (*T, error) {
	var v T
	if err := r.Conn(ctx).Scopes(scopes...).Order("id").Take(&v).Error; err != nil {
		return nil, Translate(err)
	}
	return &v, nil
}

// List returns one page of rows in primary key order plus the total count
// of rows matching scopes.
func (r Repository[T]) List(ctx context.Context, page Page, scopes ...Scope) ([]T, Pagination, error) {
	p := Pagination{Limit: page.Limit, Offset: page.Offset}

	var total int64
	if err := r.Conn(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, p, Translate(err)
	}
	p.Total = total

	out := make([]T, 0)
	if err := page.apply(r.Conn(ctx).Scopes(scopes...).Order("id")).Find(&out).Error; err != nil {
		return nil, p, Translate(err)
	}
	return out, p, nil
}

// Count returns the number of rows matching scopes.
func (r Repository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	err := r.Conn(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error
	return n, Translate(err)
}

// Save writes every column of v.
func (r Repository[T]) Save(ctx context.Context, v *T) error {
	return Translate(r.Conn(ctx).Omit(clause.Associations).Save(v).Error)
}

// Update loads row id, applies mutate and saves it, all inside the caller's
// transaction. A mutate error aborts without writing.
func (r Repository[T]) Update(ctx context.Context, id uint, mutate func(*T) error) (*T, error) {
	v, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(v); err != nil {
		return nil, err
	}
	if err := r.Save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes row id. Deleting a missing row returns ErrNotFound.
func (r Repository[T]) Delete(ctx context.Context, id uint) error {
	res := r.Conn(ctx).Delete(new(T), id)
	if res.Error != nil {
		return Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
