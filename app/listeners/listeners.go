// Package listeners reacts to domain events once the write behind them has
// committed: metrics, the live donation feed and queued mail.
package listeners

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shashikala/app/events"
	"github.com/shashiranjanraj/shashikala/app/jobs"
	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/event"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/metrics"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
)

// Broadcaster pushes a message to every live feed subscriber.
type Broadcaster interface {
	Broadcast(v any) error
}

// Deps are optional; a nil Queue or Feed turns that reaction off.
type Deps struct {
	Queue      *queue.Manager
	Feed       Broadcaster
	AdminEmail string // contact notifications go here; empty disables them
}

// DonationFrame is what live feed subscribers receive for each donation.
type DonationFrame struct {
	Type   string  `json:"type"`
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Register subscribes every listener to d.
func Register(d *event.Dispatcher, deps Deps) {
	l := &listeners{deps: deps}
	d.Listen(events.DonationRecorded, l.donationMetrics)
	d.Listen(events.DonationRecorded, l.donationFeed)
	d.Listen(events.DonationRecorded, l.donationReceipt)
	d.Listen(events.RegistrationCreated, l.registrationMetrics)
	d.Listen(events.ContactReceived, l.contactNotification)
	d.Listen(events.CartItemAdded, l.cartMetrics)
	d.Listen(events.ArtistSignedUp, l.artistSignedUp)
}

type listeners struct {
	deps Deps
}

func payload[T any](name string, p any) (T, error) {
	v, ok := p.(T)
	if !ok {
		return v, fmt.Errorf("listeners: %s: unexpected payload %T", name, p)
	}
	return v, nil
}

func (l *listeners) donationMetrics(_ context.Context, p any) error {
	d, err := payload[models.Donation](events.DonationRecorded, p)
	if err != nil {
		return err
	}
	metrics.RecordDonation(d.Amount)
	return nil
}

func (l *listeners) donationFeed(_ context.Context, p any) error {
	if l.deps.Feed == nil {
		return nil
	}
	d, err := payload[models.Donation](events.DonationRecorded, p)
	if err != nil {
		return err
	}
	return l.deps.Feed.Broadcast(DonationFrame{Type: "donation", ID: d.ID, Name: d.Name, Amount: d.Amount})
}

func (l *listeners) donationReceipt(ctx context.Context, p any) error {
	d, err := payload[models.Donation](events.DonationRecorded, p)
	if err != nil {
		return err
	}
	if l.deps.Queue == nil || d.Email == nil || *d.Email == "" {
		return nil
	}
	job := &jobs.DonationReceipt{DonationID: d.ID, DonorName: d.Name, Email: *d.Email, Amount: d.Amount}
	if d.Message != nil {
		job.Message = *d.Message
	}
	return l.deps.Queue.Dispatch(ctx, job)
}

func (l *listeners) registrationMetrics(context.Context, any) error {
	metrics.RegistrationsTotal.Inc()
	return nil
}

func (l *listeners) contactNotification(ctx context.Context, p any) error {
	c, err := payload[models.Contact](events.ContactReceived, p)
	if err != nil {
		return err
	}
	metrics.ContactsTotal.Inc()
	if l.deps.Queue == nil || l.deps.AdminEmail == "" {
		return nil
	}
	return l.deps.Queue.Dispatch(ctx, &jobs.ContactNotification{
		ContactID:  c.ID,
		To:         l.deps.AdminEmail,
		SenderName: c.Name,
		Email:      c.Email,
		Message:    c.Message,
	})
}

func (l *listeners) cartMetrics(context.Context, any) error {
	metrics.CartItemsAdded.Inc()
	return nil
}

func (l *listeners) artistSignedUp(ctx context.Context, p any) error {
	a, err := payload[models.Artist](events.ArtistSignedUp, p)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("artist signed up", "artist_id", a.ID, "email", a.Email)
	return nil
}
