package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/shashikala/app/resources"
	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/config"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/middleware"
	"github.com/shashiranjanraj/shashikala/pkg/resource"
)

// ArtistController serves the signed-in artist's own profile and artworks.
// Every route sits behind middleware.ArtistAuth.
type ArtistController struct {
	artists  *services.ArtistService
	products *services.ProductService
}

func artistID(c *ctx.Context) (uint, bool) {
	id, ok := middleware.ArtistIDFromCtx(c.Context())
	if !ok {
		c.Error(http.StatusUnauthorized, "Authentication required")
	}
	return id, ok
}

// GET /api/artist/profile
func (ac *ArtistController) Profile(c *ctx.Context) {
	id, ok := artistID(c)
	if !ok {
		return
	}
	a, err := ac.artists.Profile(c.Context(), id)
	if err != nil {
		respondError(c, "Loading profile", err)
		return
	}
	c.JSON(http.StatusOK, resources.NewProfile(*a))
}

// PUT /api/artist/profile
func (ac *ArtistController) UpdateProfile(c *ctx.Context) {
	id, ok := artistID(c)
	if !ok {
		return
	}
	var in services.ProfileUpdate
	if !c.DecodeJSON(&in) {
		return
	}
	if err := ac.artists.UpdateProfile(c.Context(), id, in); err != nil {
		respondError(c, "Updating profile", err)
		return
	}
	c.Message(http.StatusOK, "Profile updated successfully")
}

// GET /api/artist/artworks
func (ac *ArtistController) Artworks(c *ctx.Context) {
	id, ok := artistID(c)
	if !ok {
		return
	}
	page, ok := c.Page()
	if !ok {
		return
	}
	items, p, err := ac.products.ListForArtist(c.Context(), id, page)
	if err != nil {
		respondError(c, "Listing artworks", err)
		return
	}
	c.List(resource.Collection(items, resources.NewArtwork), p)
}

// POST /api/artist/artworks
func (ac *ArtistController) StoreArtwork(c *ctx.Context) {
	id, ok := artistID(c)
	if !ok {
		return
	}
	var in services.ArtworkInput
	if !c.DecodeJSON(&in) {
		return
	}
	p, err := ac.products.CreateForArtist(c.Context(), id, in)
	if err != nil {
		respondError(c, "Adding artwork", err)
		return
	}
	c.Message(http.StatusCreated, "Artwork added successfully", map[string]any{"id": p.ID})
}

// DELETE /api/artist/artworks/{product_id}
func (ac *ArtistController) DestroyArtwork(c *ctx.Context) {
	id, ok := artistID(c)
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}
	if err := ac.products.DeleteForArtist(c.Context(), id, productID); err != nil {
		respondError(c, "Deleting artwork", err)
		return
	}
	c.Message(http.StatusOK, "Artwork deleted successfully")
}

// UploadImage stores the multipart "image" file as the artwork's picture.
// POST /api/artist/artworks/{product_id}/image
func (ac *ArtistController) UploadImage(c *ctx.Context) {
	id, ok := artistID(c)
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}

	limit := config.UploadMaxBytes()
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, limit)
	file, _, err := c.R.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			c.Error(http.StatusRequestEntityTooLarge, "Image is larger than the upload limit")
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			c.Error(http.StatusBadRequest, "Missing required field: image")
		default:
			c.Error(http.StatusBadRequest, "Invalid upload: "+err.Error())
		}
		return
	}
	defer file.Close()

	url, err := ac.products.AttachImage(c.Context(), id, productID, file)
	if err != nil {
		respondError(c, "Uploading image", err)
		return
	}
	c.Message(http.StatusOK, "Image uploaded successfully", map[string]any{"image_url": url})
}
