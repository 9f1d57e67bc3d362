package services

import (
	"context"

	"github.com/shashiranjanraj/shashikala/app/events"
	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/app/repositories"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

// ─── Donations ────────────────────────────────────────────────────────────────

type DonationInput struct {
	Name    string   `json:"name"    validate:"required,max=100"`
	Amount  *float64 `json:"amount"  validate:"required"`
	Email   *string  `json:"email"   validate:"nullable,max=120"`
	Message *string  `json:"message"`
}

type DonationService struct {
	base
	repo *repositories.DonationRepository
}

func (s *DonationService) Create(ctx context.Context, in DonationInput) (*models.Donation, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	d := &models.Donation{Name: in.Name, Amount: *in.Amount, Email: in.Email, Message: in.Message}
	if err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, d)
	}); err != nil {
		return nil, err
	}
	s.fire(ctx, events.DonationRecorded, *d)
	return d, nil
}

func (s *DonationService) List(ctx context.Context, page orm.Page) ([]models.Donation, orm.Pagination, error) {
	return s.repo.List(ctx, page)
}

// ─── Registrations ────────────────────────────────────────────────────────────

// RegistrationInput lists the required fields in the order their absence is
// reported.
type RegistrationInput struct {
	FirstName      string  `json:"first_name"      validate:"required,max=50"`
	LastName       string  `json:"last_name"       validate:"required,max=50"`
	MiddleName     *string `json:"middle_name"     validate:"nullable,max=50"`
	Email          string  `json:"email"           validate:"required,max=120"`
	Contact        string  `json:"contact"         validate:"required,max=20"`
	PrimaryAddress string  `json:"primary_address" validate:"required,max=200"`
	AptUnitSuite   *string `json:"apt_unit_suite"  validate:"nullable,max=50"`
	City           string  `json:"city"            validate:"required,max=100"`
	State          string  `json:"state"           validate:"required,max=50"`
	Zipcode        string  `json:"zipcode"         validate:"required,max=10"`
}

type RegistrationService struct {
	base
	repo *repositories.RegistrationRepository
}

func (s *RegistrationService) Create(ctx context.Context, in RegistrationInput) (*models.Registration, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	reg := &models.Registration{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		MiddleName:     in.MiddleName,
		Email:          in.Email,
		Contact:        in.Contact,
		PrimaryAddress: in.PrimaryAddress,
		AptUnitSuite:   in.AptUnitSuite,
		City:           in.City,
		State:          in.State,
		Zipcode:        in.Zipcode,
	}
	if err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, reg)
	}); err != nil {
		return nil, err
	}
	s.fire(ctx, events.RegistrationCreated, *reg)
	return reg, nil
}

func (s *RegistrationService) List(ctx context.Context, page orm.Page) ([]models.RegistrationSummary, orm.Pagination, error) {
	return s.repo.ListSummaries(ctx, page)
}

// ─── Contact messages ─────────────────────────────────────────────────────────

type ContactInput struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,max=120"`
	Message string `json:"message" validate:"required"`
}

type ContactService struct {
	base
	repo *repositories.ContactRepository
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	c := &models.Contact{Name: in.Name, Email: in.Email, Message: in.Message}
	if err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	s.fire(ctx, events.ContactReceived, *c)
	return c, nil
}
