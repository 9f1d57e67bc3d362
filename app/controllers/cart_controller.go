package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shashikala/app/resources"
	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/resource"
)

type CartController struct {
	service *services.CartService
}

// POST /api/cart/add
func (cc *CartController) Add(c *ctx.Context) {
	var in services.CartAddInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := cc.service.Add(c.Context(), in); err != nil {
		respondError(c, "Adding to cart", err)
		return
	}
	c.Message(http.StatusCreated, "Item added to cart")
}

// Show returns every line of a user's cart with line totals.
// GET /api/cart/{user_id}
func (cc *CartController) Show(c *ctx.Context) {
	items, err := cc.service.ListForUser(c.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, "Loading cart", err)
		return
	}
	c.JSON(http.StatusOK, resource.Collection(items, resources.NewCartLine))
}

// PUT /api/cart/update/{cart_item_id}
func (cc *CartController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("cart_item_id")
	if !ok {
		return
	}
	var in services.CartUpdateInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := cc.service.Update(c.Context(), id, in); err != nil {
		respondError(c, "Updating cart", err)
		return
	}
	c.Message(http.StatusOK, "Cart updated successfully")
}

// DELETE /api/cart/remove/{cart_item_id}
func (cc *CartController) Remove(c *ctx.Context) {
	id, ok := c.ParamUint("cart_item_id")
	if !ok {
		return
	}
	if err := cc.service.Remove(c.Context(), id); err != nil {
		respondError(c, "Removing from cart", err)
		return
	}
	c.Message(http.StatusOK, "Item removed from cart")
}
