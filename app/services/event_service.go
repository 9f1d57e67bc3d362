package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/app/repositories"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/validate"
)

type EventInput struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description *string `json:"description"`
	Date        string  `json:"date"        validate:"required,date"`
}

// EventUpdate changes only the fields that are present.
type EventUpdate struct {
	Title       *string `json:"title"       validate:"nullable,max=200"`
	Description *string `json:"description"`
	Date        *string `json:"date"        validate:"nullable,date"`
}

type EventService struct {
	base
	repo *repositories.EventRepository
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	date, _ := validate.ParseDate(in.Date)
	ev := &models.Event{Title: in.Title, Description: in.Description, Date: date}
	if err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, ev)
	}); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *EventService) List(ctx context.Context, page orm.Page) ([]models.Event, orm.Pagination, error) {
	return s.repo.List(ctx, page)
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	ev, err := s.repo.Find(ctx, id)
	return ev, notFound(err)
}

func (s *EventService) Update(ctx context.Context, id uint, in EventUpdate) error {
	if err := check(in); err != nil {
		return err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return &ValidationError{Field: "title", Message: "Invalid title: must not be blank"}
	}
	if in.Date != nil && strings.TrimSpace(*in.Date) == "" {
		return &ValidationError{Field: "date", Message: "Invalid date: must not be blank"}
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		_, err := s.repo.Update(ctx, id, func(ev *models.Event) error {
			if in.Title != nil {
				ev.Title = *in.Title
			}
			if in.Description != nil {
				ev.Description = in.Description
			}
			if in.Date != nil {
				ev.Date, _ = validate.ParseDate(*in.Date)
			}
			return nil
		})
		return err
	})
	return notFound(err)
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	return notFound(s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}))
}
