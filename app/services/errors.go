package services

import (
	"errors"

	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/validate"
)

var (
	// ErrNotFound is returned when the addressed row does not exist, or is
	// not visible to the caller.
	ErrNotFound = errors.New("services: not found")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("services: invalid credentials")

	// ErrReferenced is returned when deleting an artwork some cart still
	// holds.
	ErrReferenced = errors.New("services: artwork is still in a cart")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a write rejected by a uniqueness rule.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// check validates in and returns its first failure as a *ValidationError.
func check(in any) error {
	errs := validate.Struct(in)
	if !errs.HasErrors() {
		return nil
	}
	first := errs.First()
	return &ValidationError{Field: first.Field, Message: first.Message}
}

// notFound maps orm.ErrNotFound onto ErrNotFound and passes other errors
// through.
func notFound(err error) error {
	if errors.Is(err, orm.ErrNotFound) {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
