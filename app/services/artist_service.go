package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/shashikala/app/events"
	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/app/repositories"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/metrics"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

const conflictEmail = "Artist with this email already exists"

type SignupInput struct {
	Email     string  `json:"email"     validate:"required,email,max=120"`
	FirstName string  `json:"firstName" validate:"required,max=50"`
	LastName  string  `json:"lastName"  validate:"required,max=49"`
	Bio       *string `json:"bio"`
	Password  *string `json:"password"  validate:"nullable,min=8,max=72"`
}

type LoginInput struct {
	Email    string  `json:"email"    validate:"required"`
	Password *string `json:"password"`
}

// LoginResult is a freshly issued artist session.
type LoginResult struct {
	Token     string
	ArtistID  uint
	ExpiresAt time.Time
}

// ProfileUpdate changes only the fields that are present.
type ProfileUpdate struct {
	Name *string `json:"name" validate:"nullable,max=100"`
	Bio  *string `json:"bio"`
}

type ArtistService struct {
	base
	artists     *repositories.ArtistRepository
	signer      *auth.Signer
	revocations *auth.Revocations
}

// Signup registers an artist whose username is their email. The password is
// optional; artists without one log in by email alone.
func (s *ArtistService) Signup(ctx context.Context, in SignupInput) (*models.Artist, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	artist := &models.Artist{
		Username: in.Email,
		Email:    in.Email,
		Name:     in.FirstName + " " + in.LastName,
	}
	if in.Bio != nil {
		artist.Bio = *in.Bio
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("services: hash password: %w", err)
		}
		artist.PasswordHash = hash
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		taken, err := s.artists.Taken(ctx, artist.Username, artist.Email)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: conflictEmail}
		}
		return s.artists.Create(ctx, artist)
	})
	if errors.Is(err, orm.ErrDuplicate) {
		// lost a race with a concurrent signup
		return nil, &ConflictError{Message: conflictEmail}
	}
	if err != nil {
		return nil, err
	}
	s.fire(ctx, events.ArtistSignedUp, *artist)
	return artist, nil
}

// Login issues a session token. Artists created without a password are
// let in on their email alone.
func (s *ArtistService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	artist, err := s.artists.FindByEmail(ctx, in.Email)
	if errors.Is(err, orm.ErrNotFound) {
		metrics.ArtistLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if artist.PasswordHash != "" && (in.Password == nil || !auth.CheckPassword(artist.PasswordHash, *in.Password)) {
		metrics.ArtistLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.signer.Issue(artist.ID)
	if err != nil {
		return nil, err
	}
	metrics.ArtistLogins.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, ArtistID: artist.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *ArtistService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.revocations.Revoke(ctx, claims)
}

func (s *ArtistService) Profile(ctx context.Context, artistID uint) (*models.Artist, error) {
	a, err := s.artists.Find(ctx, artistID)
	return a, notFound(err)
}

func (s *ArtistService) UpdateProfile(ctx context.Context, artistID uint, in ProfileUpdate) error {
	if err := check(in); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return &ValidationError{Field: "name", Message: "Invalid name: must not be blank"}
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		_, err := s.artists.Update(ctx, artistID, func(a *models.Artist) error {
			if in.Name != nil {
				a.Name = *in.Name
			}
			if in.Bio != nil {
				a.Bio = *in.Bio
			}
			return nil
		})
		return err
	})
	return notFound(err)
}
