package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

type ArtistRepository struct {
	orm.Repository[models.Artist]
}

func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{orm.NewRepository[models.Artist](db)}
}

// FindByEmail returns orm.ErrNotFound when no artist uses email.
func (r *ArtistRepository) FindByEmail(ctx context.Context, email string) (*models.Artist, error) {
	return r.FindBy(ctx, orm.Where("email = ?", email))
}

// Taken reports whether any artist already uses username or email.
func (r *ArtistRepository) Taken(ctx context.Context, username, email string) (bool, error) {
	n, err := r.Count(ctx, orm.Where("username = ? OR email = ?", username, email))
	return n > 0, err
}

func (r *ArtistRepository) Exists(ctx context.Context, id uint) (bool, error) {
	n, err := r.Count(ctx, orm.Where("id = ?", id))
	return n > 0, err
}
