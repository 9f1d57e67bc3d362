// Package middleware provides the HTTP middleware shared by every route.
package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/shashikala/pkg/cache"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/response"
)

// RateLimit allows each client IP limit requests per fixed window. Counters
// live in store, so a Redis store shares limits across instances. A store
// failure lets the request through.
//
//	r.Use(middleware.RateLimit(store, 300, time.Minute))
func RateLimit(store cache.Store, limit int, window time.Duration) func(http.Handler) http.Handler {
	return rateLimit(store, limit, window, time.Now)
}

func rateLimit(store cache.Store, limit int, window time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := now()
			slot := t.UnixNano() / int64(window)
			key := fmt.Sprintf("ratelimit:%s:%d", ClientIP(r), slot)

			n, err := store.Increment(r.Context(), key, window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(max(int64(limit)-n, 0), 10))
			if n > int64(limit) {
				reset := time.Unix(0, (slot+1)*int64(window))
				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Sub(t).Seconds())+1))
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the remote
// address without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

