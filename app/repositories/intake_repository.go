// Package repositories holds one repository per entity. Each embeds the
// generic orm.Repository and adds the lookups its service needs; all of them
// join the transaction bound to the context they are called with.
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

type DonationRepository struct {
	orm.Repository[models.Donation]
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{orm.NewRepository[models.Donation](db)}
}

type ContactRepository struct {
	orm.Repository[models.Contact]
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{orm.NewRepository[models.Contact](db)}
}

type RegistrationRepository struct {
	orm.Repository[models.Registration]
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{orm.NewRepository[models.Registration](db)}
}

// ListSummaries pages through registrations selecting only the listed
// columns.
func (r *RegistrationRepository) ListSummaries(ctx context.Context, page orm.Page) ([]models.RegistrationSummary, orm.Pagination, error) {
	p := orm.Pagination{Limit: page.Limit, Offset: page.Offset}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, p, err
	}
	p.Total = total

	out := make([]models.RegistrationSummary, 0)
	err = r.Conn(ctx).
		Model(&models.Registration{}).
		Select("id", "first_name", "last_name", "email", "contact").
		Scopes(orm.Paginate(page)).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, p, orm.Translate(err)
	}
	return out, p, nil
}
