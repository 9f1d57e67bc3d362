// Package resources holds the response shapes of the site's models.
package resources

import (
	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/resource"
)

type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ArtistID    uint    `json:"artist_id"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func NewProduct(p models.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ArtistID:    p.ArtistID,
		ImageURL:    resource.OptionalString(p.ImageURL),
	}
}

// Artwork is a product as its own artist sees it.
type Artwork struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func NewArtwork(p models.Product) Artwork {
	return Artwork{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    resource.OptionalString(p.ImageURL),
	}
}

type CartProduct struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartLine is one cart row with its line total.
type CartLine struct {
	ID       uint        `json:"id"`
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity"`
	Total    float64     `json:"total"`
}

func NewCartLine(c models.CartItem) CartLine {
	line := CartLine{ID: c.ID, Quantity: c.Quantity}
	if c.Product != nil {
		line.Product = CartProduct{ID: c.Product.ID, Name: c.Product.Name, Price: c.Product.Price}
		line.Total = c.Product.Price * float64(c.Quantity)
	}
	return line
}

type Event struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Date        resource.Time `json:"date"`
	CreatedAt   resource.Time `json:"created_at"`
}

func NewEvent(e models.Event) Event {
	return Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        resource.Time(e.Date),
		CreatedAt:   resource.Time(e.CreatedAt),
	}
}

type Profile struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

func NewProfile(a models.Artist) Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email, Bio: a.Bio}
}
