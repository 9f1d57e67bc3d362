package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

type EventRepository struct {
	orm.Repository[models.Event]
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{orm.NewRepository[models.Event](db)}
}
