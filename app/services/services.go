// Package services holds the site's use cases. Each service validates its
// input, runs its writes inside one transaction and fires a domain event
// once the transaction has committed.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/repositories"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/event"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/storage"
)

// Deps are the collaborators the services are built from.
type Deps struct {
	DB          *gorm.DB
	Events      *event.Dispatcher // nil disables events
	Disk        storage.Disk
	Signer      *auth.Signer
	Revocations *auth.Revocations
}

// Services is the full set, built once at boot.
type Services struct {
	Donations     *DonationService
	Registrations *RegistrationService
	Contacts      *ContactService
	Products      *ProductService
	Cart          *CartService
	Artists       *ArtistService
	Events        *EventService
}

func New(d Deps) *Services {
	b := base{tx: orm.NewTx(d.DB), events: d.Events}
	artists := repositories.NewArtistRepository(d.DB)
	products := repositories.NewProductRepository(d.DB)
	cart := repositories.NewCartRepository(d.DB)

	return &Services{
		Donations:     &DonationService{base: b, repo: repositories.NewDonationRepository(d.DB)},
		Registrations: &RegistrationService{base: b, repo: repositories.NewRegistrationRepository(d.DB)},
		Contacts:      &ContactService{base: b, repo: repositories.NewContactRepository(d.DB)},
		Products:      &ProductService{base: b, products: products, artists: artists, cart: cart, disk: d.Disk},
		Cart:          &CartService{base: b, cart: cart, products: products},
		Artists:       &ArtistService{base: b, artists: artists, signer: d.Signer, revocations: d.Revocations},
		Events:        &EventService{base: b, repo: repositories.NewEventRepository(d.DB)},
	}
}

type base struct {
	tx     orm.Transactor
	events *event.Dispatcher
}

// fire publishes name once the surrounding work has committed.
func (b base) fire(ctx context.Context, name string, payload any) {
	if b.events != nil {
		b.events.DispatchAsync(ctx, name, payload)
	}
}
