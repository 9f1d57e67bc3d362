package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/shashikala/app/resources"
	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/resource"
)

type ProductController struct {
	service *services.ProductService
}

// Store adds a product to the catalogue.
// POST /api/products
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.DecodeJSON(&in) {
		return
	}
	p, err := pc.service.Create(c.Context(), in)
	if err != nil {
		respondError(c, "Adding product", err)
		return
	}
	c.Message(http.StatusCreated, "Product added successfully", map[string]any{"id": p.ID})
}

// Index lists the catalogue, optionally for one artist.
// GET /api/products?artist_id=
func (pc *ProductController) Index(c *ctx.Context) {
	page, ok := c.Page()
	if !ok {
		return
	}
	var artistID uint
	if raw := c.Query("artist_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			c.Error(http.StatusBadRequest, "artist_id must be a positive integer")
			return
		}
		artistID = uint(n)
	}
	items, p, err := pc.service.List(c.Context(), page, artistID)
	if err != nil {
		respondError(c, "Listing products", err)
		return
	}
	c.List(resource.Collection(items, resources.NewProduct), p)
}

// GET /api/products/{id}
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := pc.service.Get(c.Context(), id)
	if err != nil {
		respondError(c, "Loading product", err)
		return
	}
	c.JSON(http.StatusOK, resources.NewProduct(*p))
}
