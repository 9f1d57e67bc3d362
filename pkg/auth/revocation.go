package auth

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shashikala/pkg/cache"
)

const revokedPrefix = "artist_token:revoked:"

// Revocations records logged-out token ids until the tokens would have
// expired anyway.
type Revocations struct {
	store  cache.Store
	signer *Signer
}

func NewRevocations(store cache.Store, signer *Signer) *Revocations {
	return &Revocations{store: store, signer: signer}
}

// Revoke blocks c.ID for the rest of the token's lifetime.
func (r *Revocations) Revoke(ctx context.Context, c *Claims) error {
	ttl := r.signer.Remaining(c)
	if ttl <= 0 {
		return nil
	}
	if err := r.store.Set(ctx, revokedPrefix+c.ID, true, ttl); err != nil {
		return fmt.Errorf("auth: revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked.
func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ok, err := r.store.Has(ctx, revokedPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("auth: revocation lookup: %w", err)
	}
	return ok, nil
}
