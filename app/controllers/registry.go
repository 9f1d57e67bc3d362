package controllers

import "github.com/shashiranjanraj/shashikala/app/services"

// Registry holds one controller per resource, built from the service set.
type Registry struct {
	Donations     *DonationController
	Registrations *RegistrationController
	Contacts      *ContactController
	Products      *ProductController
	Cart          *CartController
	ArtistAuth    *ArtistAuthController
	Artist        *ArtistController
	Events        *EventController
}

func NewRegistry(s *services.Services) *Registry {
	return &Registry{
		Donations:     &DonationController{service: s.Donations},
		Registrations: &RegistrationController{service: s.Registrations},
		Contacts:      &ContactController{service: s.Contacts},
		Products:      &ProductController{service: s.Products},
		Cart:          &CartController{service: s.Cart},
		ArtistAuth:    &ArtistAuthController{service: s.Artists},
		Artist:        &ArtistController{artists: s.Artists, products: s.Products},
		Events:        &EventController{service: s.Events},
	}
}
