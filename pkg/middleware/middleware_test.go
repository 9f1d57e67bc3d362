package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/cache"
)

func artistEcho(w http.ResponseWriter, r *http.Request) {
	id, _ := ArtistIDFromCtx(r.Context())
	w.Header().Set("X-Seen-Artist", strconv.FormatUint(uint64(id), 10))
	if ClaimsFromCtx(r.Context()) != nil {
		w.Header().Set("X-Seen-Claims", "yes")
	}
	w.WriteHeader(http.StatusNoContent)
}

func authFixture(t *testing.T, legacy bool) (http.Handler, *auth.Signer, *auth.Revocations) {
	t.Helper()
	signer := auth.NewSigner("test-secret", time.Hour)
	revoked := auth.NewRevocations(cache.NewMemoryStore(), signer)
	return ArtistAuth(signer, revoked, legacy)(http.HandlerFunc(artistEcho)), signer, revoked
}

func call(h http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/artist/profile", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestArtistAuthBearer(t *testing.T) {
	h, signer, _ := authFixture(t, false)
	token, _, err := signer.Issue(5)
	require.NoError(t, err)

	rec := call(h, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-Seen-Artist"))
	assert.Equal(t, "yes", rec.Header().Get("X-Seen-Claims"))
}

func TestArtistAuthRejects(t *testing.T) {
	h, signer, revoked := authFixture(t, false)
	token, claims, err := signer.Issue(5)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), claims))

	cases := map[string]struct {
		headers map[string]string
		status  int
		body    string
	}{
		"missing":      {nil, http.StatusUnauthorized, `{"error":"Authentication required"}`},
		"garbage":      {map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, `{"error":"Invalid or expired token"}`},
		"revoked":      {map[string]string{"Authorization": "Bearer " + token}, http.StatusUnauthorized, `{"error":"Token has been revoked"}`},
		"legacy off":   {map[string]string{LegacyArtistHeader: "5"}, http.StatusUnauthorized, `{"error":"Authentication required"}`},
		"wrong scheme": {map[string]string{"Authorization": "Basic Zm9vOmJhcg=="}, http.StatusUnauthorized, `{"error":"Authentication required"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := call(h, tc.headers)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestArtistAuthLegacyHeader(t *testing.T) {
	h, signer, _ := authFixture(t, true)

	rec := call(h, map[string]string{LegacyArtistHeader: "9"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "9", rec.Header().Get("X-Seen-Artist"))
	assert.Empty(t, rec.Header().Get("X-Seen-Claims"))

	rec = call(h, map[string]string{LegacyArtistHeader: "abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := signer.Issue(5)
	require.NoError(t, err)
	rec = call(h, map[string]string{"Authorization": "Bearer " + token, LegacyArtistHeader: "9"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(h, map[string]string{"Authorization": "Bearer " + token, LegacyArtistHeader: "5"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS(DefaultCORSOptions([]string{"https://shashikala.art"}))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/donate", nil)
	req.Header.Set("Origin", "https://shashikala.art")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shashikala.art", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitFixedWindow(t *testing.T) {
	store := cache.NewMemoryStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	h := rateLimit(store, 2, time.Minute, clock)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	rec := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "61", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code, "limits are per client")

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code, "a new window resets the count")
}

type failingStore struct{ cache.Store }

func (failingStore) Increment(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := RateLimit(failingStore{}, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	assert.Equal(t, "192.0.2.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	assert.Equal(t, "1.2.3.4", ClientIP(req))
}

func TestRecoveryAndLogger(t *testing.T) {
	h := Logger(Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
