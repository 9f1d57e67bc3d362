package seeders

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
)

const demoArtistEmail = "demo@shashikala.art"

func init() {
	Register("demo_catalogue", seedDemoCatalogue)
	Register("demo_events", seedDemoEvents)
}

func seedDemoCatalogue(db *gorm.DB) error {
	hash, err := auth.HashPassword("shashikala-demo")
	if err != nil {
		return err
	}

	artist := models.Artist{
		Username:     demoArtistEmail,
		Email:        demoArtistEmail,
		Name:         "Demo Artist",
		Bio:          "Watercolours and ink studies.",
		PasswordHash: hash,
	}
	res := db.Where(models.Artist{Email: demoArtistEmail}).FirstOrCreate(&artist)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Monsoon Over Pune", Description: "Watercolour on cotton paper, 30x40cm.", Price: 120, Stock: 1, ArtistID: artist.ID},
		{Name: "Temple Steps", Description: "Ink wash, 20x30cm.", Price: 75, Stock: 3, ArtistID: artist.ID},
		{Name: "Lotus Study", Description: "Gouache, 25x25cm.", Price: 60, Stock: 5, ArtistID: artist.ID},
	}
	return db.Create(&products).Error
}

func seedDemoEvents(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Event{}).Count(&n).Error; err != nil || n > 0 {
		return err
	}
	desc := "An evening of live painting and a silent auction."
	return db.Create(&models.Event{
		Title:       "Open Studio Night",
		Description: &desc,
		Date:        time.Date(2026, time.December, 12, 18, 30, 0, 0, time.UTC),
	}).Error
}
