package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

type ProductRepository struct {
	orm.Repository[models.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{orm.NewRepository[models.Product](db)}
}

// OwnedBy narrows a query to one artist's products.
func OwnedBy(artistID uint) orm.Scope {
	return orm.Where("artist_id = ?", artistID)
}

// FindOwned loads product id only if artistID owns it; anything else is
// orm.ErrNotFound.
func (r *ProductRepository) FindOwned(ctx context.Context, artistID, id uint) (*models.Product, error) {
	return r.Find(ctx, id, OwnedBy(artistID))
}

func (r *ProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	n, err := r.Count(ctx, orm.Where("id = ?", id))
	return n > 0, err
}
