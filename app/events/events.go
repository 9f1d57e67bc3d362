// Package events names the domain events fired by the services. Each
// payload is the model value that was just committed.
package events

const (
	DonationRecorded    = "donation.recorded"    // models.Donation
	RegistrationCreated = "registration.created" // models.Registration
	ContactReceived     = "contact.received"     // models.Contact
	CartItemAdded       = "cart.item_added"      // models.CartItem
	ArtistSignedUp      = "artist.signed_up"     // models.Artist
)
