package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

type CartRepository struct {
	orm.Repository[models.CartItem]
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{orm.NewRepository[models.CartItem](db)}
}

// ForUser returns every line of a user's cart with its product loaded, in
// id order.
func (r *CartRepository) ForUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	out := make([]models.CartItem, 0)
	err := r.Conn(ctx).
		Scopes(orm.Where("user_id = ?", userID), orm.Preload("Product")).
		Order("id").
		Find(&out).Error
	return out, orm.Translate(err)
}

// CountForProduct counts cart lines, across all users, holding productID.
func (r *CartRepository) CountForProduct(ctx context.Context, productID uint) (int64, error) {
	return r.Count(ctx, orm.Where("product_id = ?", productID))
}
