package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
)

type DonationController struct {
	service *services.DonationService
}

// Store records a donation.
// POST /api/donate
func (d *DonationController) Store(c *ctx.Context) {
	var in services.DonationInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := d.service.Create(c.Context(), in); err != nil {
		respondError(c, "Donation", err)
		return
	}
	c.Message(http.StatusCreated, "Donation recorded successfully")
}

// Index lists donations.
// GET /api/donations
func (d *DonationController) Index(c *ctx.Context) {
	page, ok := c.Page()
	if !ok {
		return
	}
	items, p, err := d.service.List(c.Context(), page)
	if err != nil {
		respondError(c, "Listing donations", err)
		return
	}
	c.List(items, p)
}

type RegistrationController struct {
	service *services.RegistrationService
}

// Store signs someone up. Unknown fields are rejected.
// POST /api/register
func (rc *RegistrationController) Store(c *ctx.Context) {
	var in services.RegistrationInput
	if !c.DecodeStrictJSON(&in) {
		return
	}
	if _, err := rc.service.Create(c.Context(), in); err != nil {
		respondError(c, "Registration", err)
		return
	}
	c.Message(http.StatusCreated, "Registration successful")
}

// GET /api/registrations
func (rc *RegistrationController) Index(c *ctx.Context) {
	page, ok := c.Page()
	if !ok {
		return
	}
	items, p, err := rc.service.List(c.Context(), page)
	if err != nil {
		respondError(c, "Listing registrations", err)
		return
	}
	c.List(items, p)
}

type ContactController struct {
	service *services.ContactService
}

// POST /api/contact
func (cc *ContactController) Store(c *ctx.Context) {
	var in services.ContactInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := cc.service.Create(c.Context(), in); err != nil {
		respondError(c, "Sending message", err)
		return
	}
	c.Message(http.StatusCreated, "Message sent successfully")
}
