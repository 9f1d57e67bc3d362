package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/migration"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
)

func init() {
	migration.Register("20260101000000_create_artists_table", &createTable{model: &models.Artist{}, table: "artists"})
	migration.Register("20260101000001_create_products_table", &createTable{model: &models.Product{}, table: "products"})
	migration.Register("20260101000002_create_cart_items_table", &createTable{model: &models.CartItem{}, table: "cart_items"})
	migration.Register("20260101000003_create_donations_table", &createTable{model: &models.Donation{}, table: "donations"})
	migration.Register("20260101000004_create_registrations_table", &createTable{model: &models.Registration{}, table: "registrations"})
	migration.Register("20260101000005_create_contacts_table", &createTable{model: &models.Contact{}, table: "contacts"})
	migration.Register("20260101000006_create_events_table", &createTable{model: &models.Event{}, table: "events"})
	migration.Register("20260101000007_create_failed_jobs_table", &createTable{model: &queue.FailedJobRecord{}, table: "failed_jobs"})
}

// createTable migrates one model. Tables with foreign keys are registered
// after the tables they reference.
type createTable struct {
	model any
	table string
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.table)
}
