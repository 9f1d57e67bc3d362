package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/response"
)

// LegacyArtistHeader carries a bare artist id when legacy header auth is on.
const LegacyArtistHeader = "X-Artist-Id"

type artistKey struct{}
type claimsKey struct{}

// ArtistIDFromCtx returns the authenticated artist id.
func ArtistIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(artistKey{}).(uint)
	return id, ok && id != 0
}

// ClaimsFromCtx returns the verified token claims. It is nil when the request
// authenticated through the legacy header.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

// WithArtist binds an artist id (and optional claims) to ctx.
func WithArtist(ctx context.Context, artistID uint, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, artistKey{}, artistID)
	if claims != nil {
		ctx = context.WithValue(ctx, claimsKey{}, claims)
	}
	return ctx
}

// ArtistAuth authenticates artist routes with "Authorization: Bearer <jwt>".
// With legacyHeader set, X-Artist-Id alone is also accepted; when both are
// sent they must name the same artist.
func ArtistAuth(signer *auth.Signer, revoked *auth.Revocations, legacyHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.WithCtx(r.Context())
			bearer := bearerToken(r)
			header := strings.TrimSpace(r.Header.Get(LegacyArtistHeader))

			if bearer == "" {
				if !legacyHeader || header == "" {
					response.Unauthorized(w, "Authentication required")
					return
				}
				id, err := strconv.ParseUint(header, 10, 0)
				if err != nil || id == 0 {
					response.Unauthorized(w, "Invalid "+LegacyArtistHeader+" header")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithArtist(r.Context(), uint(id), nil)))
				return
			}

			claims, err := signer.Parse(bearer)
			if err != nil {
				log.Debug("artist token rejected", "error", err)
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Error("artist token revocation lookup failed", "error", err)
				response.Unauthorized(w, "Invalid or expired token")
				return
			}
			if isRevoked {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			if header != "" && header != strconv.FormatUint(uint64(claims.ArtistID), 10) {
				response.Forbidden(w, "Token does not match "+LegacyArtistHeader)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithArtist(r.Context(), claims.ArtistID, claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
