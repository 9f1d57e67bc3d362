package models

import "time"

// Event is a public happening that visitors can browse.
type Event struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text"         json:"description"`
	Date        time.Time `gorm:"not null;index"    json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}
