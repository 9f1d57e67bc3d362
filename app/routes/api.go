// Package routes declares the site's HTTP API.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/shashikala/app/controllers"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/router"
)

// API bundles what the route table needs beyond the controllers.
type API struct {
	Controllers *controllers.Registry
	ArtistAuth  router.Middleware
	LiveFeed    http.Handler // websocket donation feed
	GraphQL     http.Handler
}

// RegisterAPI mounts every /api route on r.
func RegisterAPI(r *router.Router, a API) {
	c := a.Controllers
	api := r.Group("/api")

	// Intake
	api.Post("/donate", "donations.store", ctx.Wrap(c.Donations.Store))
	api.Get("/donations", "donations.index", ctx.Wrap(c.Donations.Index))
	if a.LiveFeed != nil {
		api.Handle("/donations/live", "donations.live", a.LiveFeed)
	}
	api.Post("/register", "registrations.store", ctx.Wrap(c.Registrations.Store))
	api.Get("/registrations", "registrations.index", ctx.Wrap(c.Registrations.Index))
	api.Post("/contact", "contacts.store", ctx.Wrap(c.Contacts.Store))

	// Catalogue
	api.Post("/products", "products.store", ctx.Wrap(c.Products.Store))
	api.Get("/products", "products.index", ctx.Wrap(c.Products.Index))
	api.Get("/products/{id:[0-9]+}", "products.show", ctx.Wrap(c.Products.Show))

	// Cart
	cart := api.Group("/cart")
	cart.Post("/add", "cart.add", ctx.Wrap(c.Cart.Add))
	cart.Put("/update/{cart_item_id:[0-9]+}", "cart.update", ctx.Wrap(c.Cart.Update))
	cart.Delete("/remove/{cart_item_id:[0-9]+}", "cart.remove", ctx.Wrap(c.Cart.Remove))
	cart.Get("/{user_id}", "cart.show", ctx.Wrap(c.Cart.Show))

	// Artist sessions
	auth := api.Group("/auth/artist")
	auth.Post("/signup", "artist.signup", ctx.Wrap(c.ArtistAuth.Signup))
	auth.Post("/login", "artist.login", ctx.Wrap(c.ArtistAuth.Login))
	auth.Post("/logout", "artist.logout", ctx.Wrap(c.ArtistAuth.Logout), a.ArtistAuth)

	// Signed-in artist
	artist := api.Group("/artist", a.ArtistAuth)
	artist.Get("/profile", "artist.profile", ctx.Wrap(c.Artist.Profile))
	artist.Put("/profile", "artist.profile.update", ctx.Wrap(c.Artist.UpdateProfile))
	artist.Get("/artworks", "artist.artworks", ctx.Wrap(c.Artist.Artworks))
	artist.Post("/artworks", "artist.artworks.store", ctx.Wrap(c.Artist.StoreArtwork))
	artist.Delete("/artworks/{product_id:[0-9]+}", "artist.artworks.destroy", ctx.Wrap(c.Artist.DestroyArtwork))
	artist.Post("/artworks/{product_id:[0-9]+}/image", "artist.artworks.image", ctx.Wrap(c.Artist.UploadImage))

	// Events
	api.Get("/events", "events.index", ctx.Wrap(c.Events.Index))
	api.Post("/events", "events.store", ctx.Wrap(c.Events.Store))
	api.Get("/events/{event_id:[0-9]+}", "events.show", ctx.Wrap(c.Events.Show))
	api.Put("/events/{event_id:[0-9]+}", "events.update", ctx.Wrap(c.Events.Update))
	api.Delete("/events/{event_id:[0-9]+}", "events.destroy", ctx.Wrap(c.Events.Destroy))

	if a.GraphQL != nil {
		api.Post("/graphql", "graphql", a.GraphQL.ServeHTTP)
	}
}
