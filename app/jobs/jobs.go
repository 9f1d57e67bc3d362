// Package jobs holds the background mail jobs. Each job carries everything
// it renders, so workers never go back to the database.
package jobs

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/shashiranjanraj/shashikala/pkg/mail"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Register makes the jobs runnable by m's workers, sending through mailer.
func Register(m *queue.Manager, mailer mail.Mailer) {
	m.Register(func() queue.Job { return &DonationReceipt{mailer: mailer} })
	m.Register(func() queue.Job { return &ContactNotification{mailer: mailer} })
}

// DonationReceipt thanks a donor who left an email address.
type DonationReceipt struct {
	DonationID uint    `json:"donation_id"`
	DonorName  string  `json:"donor_name"`
	Email      string  `json:"email"`
	Amount     float64 `json:"amount"`
	Message    string  `json:"message,omitempty"`

	mailer mail.Mailer
}

func (*DonationReceipt) Name() string { return "mail.donation_receipt" }

func (j *DonationReceipt) Handle(ctx context.Context) error {
	body, err := mail.Render(templates.Lookup("donation_receipt.html"), j)
	if err != nil {
		return err
	}
	return j.send(ctx, mail.Message{
		To:      []string{j.Email},
		Subject: "Thank you for your donation (receipt #" + strconv.FormatUint(uint64(j.DonationID), 10) + ")",
		HTML:    body,
	})
}

func (j *DonationReceipt) send(ctx context.Context, msg mail.Message) error {
	if j.mailer == nil {
		return fmt.Errorf("jobs: %s has no mailer", j.Name())
	}
	return j.mailer.Send(ctx, msg)
}

// ContactNotification forwards a contact-form message to the site admin.
type ContactNotification struct {
	ContactID  uint   `json:"contact_id"`
	To         string `json:"to"`
	SenderName string `json:"sender_name"`
	Email      string `json:"email"`
	Message    string `json:"message"`

	mailer mail.Mailer
}

func (*ContactNotification) Name() string { return "mail.contact_notification" }

func (j *ContactNotification) Handle(ctx context.Context) error {
	if j.mailer == nil {
		return fmt.Errorf("jobs: %s has no mailer", j.Name())
	}
	body, err := mail.Render(templates.Lookup("contact_notification.html"), j)
	if err != nil {
		return err
	}
	return j.mailer.Send(ctx, mail.Message{
		To:      []string{j.To},
		ReplyTo: j.Email,
		Subject: "Contact form: " + j.SenderName,
		HTML:    body,
	})
}
