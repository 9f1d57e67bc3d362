package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/app/repositories"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/storage"
)

// imageTypes maps the accepted sniffed content types to file extensions.
var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type ProductInput struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"required"`
	Stock       *int     `json:"stock"       validate:"required"`
	ArtistID    *uint    `json:"artist_id"   validate:"required"`
}

// ArtworkInput is a product created by the signed-in artist.
type ArtworkInput struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required"`
	Stock       *int     `json:"stock"`
}

type ProductService struct {
	base
	products *repositories.ProductRepository
	artists  *repositories.ArtistRepository
	cart     *repositories.CartRepository
	disk     storage.Disk
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	p := &models.Product{Name: in.Name, Price: *in.Price, Stock: *in.Stock, ArtistID: *in.ArtistID}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if err := s.create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the catalogue; a non-zero artistID narrows it to one artist.
func (s *ProductService) List(ctx context.Context, page orm.Page, artistID uint) ([]models.Product, orm.Pagination, error) {
	if artistID != 0 {
		return s.products.List(ctx, page, repositories.OwnedBy(artistID))
	}
	return s.products.List(ctx, page)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.products.Find(ctx, id)
	return p, notFound(err)
}

// ─── Artist-scoped artworks ───────────────────────────────────────────────────

func (s *ProductService) ListForArtist(ctx context.Context, artistID uint, page orm.Page) ([]models.Product, orm.Pagination, error) {
	return s.List(ctx, page, artistID)
}

// CreateForArtist adds an artwork; stock defaults to 1.
func (s *ProductService) CreateForArtist(ctx context.Context, artistID uint, in ArtworkInput) (*models.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Stock:       1,
		ArtistID:    artistID,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if err := s.create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) create(ctx context.Context, p *models.Product) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		ok, err := s.artists.Exists(ctx, p.ArtistID)
		if err != nil {
			return err
		}
		if !ok {
			return &ValidationError{Field: "artist_id", Message: "Artist not found"}
		}
		return s.products.Create(ctx, p)
	})
}

// DeleteForArtist removes one of the artist's artworks and its image. An
// artwork still held in any cart is kept and ErrReferenced returned.
func (s *ProductService) DeleteForArtist(ctx context.Context, artistID, productID uint) error {
	var imagePath string
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.products.FindOwned(ctx, artistID, productID)
		if err != nil {
			return err
		}
		n, err := s.cart.CountForProduct(ctx, productID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrReferenced
		}
		imagePath = s.storedPath(p)
		return s.products.Delete(ctx, productID)
	})
	if errors.Is(err, orm.ErrForeignKey) {
		return ErrReferenced
	}
	if err != nil {
		return notFound(err)
	}
	s.removeImage(ctx, imagePath)
	return nil
}

// AttachImage stores an uploaded image for the artwork and points image_url
// at it, replacing any previous image. The type is sniffed from the content.
func (s *ProductService) AttachImage(ctx context.Context, artistID, productID uint, file io.Reader) (string, error) {
	if _, err := s.products.FindOwned(ctx, artistID, productID); err != nil {
		return "", notFound(err)
	}

	br := bufio.NewReaderSize(file, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("services: read upload: %w", err)
	}
	if len(head) == 0 {
		return "", &ValidationError{Field: "image", Message: "Missing required field: image"}
	}
	contentType := http.DetectContentType(head)
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", &ValidationError{Field: "image", Message: "Invalid image: must be a jpeg, png, gif or webp file"}
	}

	path := fmt.Sprintf("artworks/%d/%d-%s.%s", artistID, productID, uuid.NewString(), ext)
	if err := s.disk.Put(ctx, path, br, contentType); err != nil {
		return "", err
	}

	url := s.disk.URL(path)
	var previous string
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		_, err := s.products.Update(ctx, productID, func(p *models.Product) error {
			if p.ArtistID != artistID {
				return orm.ErrNotFound
			}
			previous = s.storedPath(p)
			p.ImageURL = url
			p.ImagePath = path
			return nil
		})
		return err
	})
	if err != nil {
		s.removeImage(ctx, path)
		return "", notFound(err)
	}
	s.removeImage(ctx, previous)
	return url, nil
}

// storedPath is the disk path of p's image, if it has one on this disk.
func (s *ProductService) storedPath(p *models.Product) string {
	if p.ImagePath != "" {
		return p.ImagePath
	}
	if p.ImageURL == "" {
		return ""
	}
	path, _ := s.disk.PathOf(p.ImageURL)
	return path
}

func (s *ProductService) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.disk.Delete(ctx, path); err != nil {
		logger.WithCtx(ctx).Warn("artwork image cleanup failed", "path", path, "error", err)
	}
}
