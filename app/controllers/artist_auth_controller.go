package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/middleware"
)

type ArtistAuthController struct {
	service *services.ArtistService
}

// POST /api/auth/artist/signup
func (a *ArtistAuthController) Signup(c *ctx.Context) {
	var in services.SignupInput
	if !c.DecodeJSON(&in) {
		return
	}
	artist, err := a.service.Signup(c.Context(), in)
	if err != nil {
		respondError(c, "Signup", err)
		return
	}
	c.Message(http.StatusCreated, "Artist registered successfully", map[string]any{"artistId": artist.ID})
}

// Login answers {token, artistId}; the token goes in "Authorization: Bearer"
// on artist routes.
// POST /api/auth/artist/login
func (a *ArtistAuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.DecodeJSON(&in) {
		return
	}
	res, err := a.service.Login(c.Context(), in)
	if err != nil {
		respondError(c, "Login", err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"token":     res.Token,
		"artistId":  res.ArtistID,
		"expiresAt": res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout revokes the bearer token the request authenticated with.
// POST /api/auth/artist/logout
func (a *ArtistAuthController) Logout(c *ctx.Context) {
	claims := middleware.ClaimsFromCtx(c.Context())
	if claims == nil {
		c.Error(http.StatusUnauthorized, "Logout requires a bearer token")
		return
	}
	if err := a.service.Logout(c.Context(), claims); err != nil {
		respondError(c, "Logout", err)
		return
	}
	c.Message(http.StatusOK, "Logged out successfully")
}
