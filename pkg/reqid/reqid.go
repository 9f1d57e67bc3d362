// Package reqid provides request ID generation and context propagation.
//
// Every request gets an ID that is stored in its context, echoed in the
// X-Request-ID response header, and attached to log lines by the request
// logger middleware.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("donation recorded", "donation_id", d.ID)
//	// → time=... level=INFO msg="donation recorded" request_id=6f1c... donation_id=1
package reqid

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// ctxKey is the unexported key used to store the request ID in context.
type ctxKey struct{}

// Header is the HTTP header name used to propagate the request ID.
const Header = "X-Request-ID"

// New returns a random (v4) UUID.
func New() string {
	return uuid.NewString()
}

// validID bounds what an inbound X-Request-ID may contain.
var validID = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,64}$`)

// WithValue stores id in ctx and returns the new context.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx extracts the request ID from ctx.
// Returns an empty string if none is present.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware injects a request ID into every request context and response
// header. A well-formed X-Request-ID from the client is reused; anything else
// is replaced with a fresh UUID.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !validID.MatchString(id) {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
