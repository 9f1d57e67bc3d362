// Package controllers turns HTTP requests into service calls and service
// results into JSON responses.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
)

// respondError writes the status and body for a service error. Anything the
// services do not classify is logged and reported as "<op> failed".
func respondError(c *ctx.Context, op string, err error) {
	var (
		invalid  *services.ValidationError
		conflict *services.ConflictError
	)
	switch {
	case errors.As(err, &invalid):
		c.Error(http.StatusBadRequest, invalid.Message)
	case errors.As(err, &conflict):
		c.Error(http.StatusBadRequest, conflict.Message)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrReferenced):
		c.Error(http.StatusConflict, "Artwork is still in a cart")
	default:
		c.Logger().Error(op+" failed", "error", err)
		c.Error(http.StatusBadRequest, op+" failed")
	}
}
