// Package bind decodes an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/shashikala/config"
)

// ErrTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrTooLarge = errors.New("request body too large")

// JSON decodes r.Body into dest, ignoring unknown fields.
func JSON(r *http.Request, dest any) error {
	return decode(r, dest, false)
}

// StrictJSON decodes r.Body into dest and rejects fields dest does not declare.
func StrictJSON(r *http.Request, dest any) error {
	return decode(r, dest, true)
}

func decode(r *http.Request, dest any, strict bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("invalid JSON: empty body")
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: unexpected data after the object")
	}
	return nil
}
