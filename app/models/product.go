package models

import "time"

// Artist owns artworks listed in the catalogue. Username always equals Email.
type Artist struct {
	ID           uint      `gorm:"primaryKey"                    json:"id"`
	Username     string    `gorm:"size:120;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:100;not null"             json:"name"`
	Bio          string    `gorm:"type:text"                     json:"bio"`
	PasswordHash string    `gorm:"size:255"                      json:"-"` // bcrypt, empty for legacy artists
	CreatedAt    time.Time `json:"created_at"`
}

// Product is an artwork for sale.
type Product struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text"         json:"description"`
	Price       float64   `gorm:"not null"          json:"price"`
	Stock       int       `gorm:"not null"          json:"stock"`
	ArtistID    uint      `gorm:"not null;index"    json:"artist_id"`
	Artist      *Artist   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ImageURL    string    `gorm:"size:500"          json:"image_url,omitempty"`
	ImagePath   string    `gorm:"size:300"          json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartItem is one add-to-cart call. Repeated adds are separate rows.
type CartItem struct {
	ID        uint     `gorm:"primaryKey"              json:"id"`
	UserID    string   `gorm:"size:100;not null;index" json:"user_id"`
	ProductID uint     `gorm:"not null;index"          json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int      `gorm:"not null"                json:"quantity"`
}
