package ctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/config"
	appctx "github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

func serve(req *http.Request, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func TestMessageAndStatus(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodPost, "/", nil), func(c *appctx.Context) {
		c.Message(http.StatusCreated, "Artwork added successfully", map[string]any{"id": 3})
		assert.Equal(t, http.StatusCreated, c.WrittenStatus())
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Artwork added successfully","id":3}`, rec.Body.String())
}

func TestParamUint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events/12", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("event_id", "12")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := serve(req, func(c *appctx.Context) {
		id, ok := c.ParamUint("event_id")
		require.True(t, ok)
		assert.Equal(t, uint(12), id)

		_, ok = c.ParamUint("missing")
		assert.False(t, ok)
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageDefaultsAndCap(t *testing.T) {
	config.Set("PAGE_DEFAULT_LIMIT", "100")
	config.Set("PAGE_MAX_LIMIT", "500")

	serve(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		p, ok := c.Page()
		require.True(t, ok)
		assert.Equal(t, orm.Page{Limit: 100}, p)
	})

	serve(httptest.NewRequest(http.MethodGet, "/?limit=9000&offset=5", nil), func(c *appctx.Context) {
		p, ok := c.Page()
		require.True(t, ok)
		assert.Equal(t, orm.Page{Limit: 500, Offset: 5}, p)
	})
}

func TestPageRejectsBadValues(t *testing.T) {
	for _, q := range []string{"limit=abc", "limit=-1", "limit=0", "offset=-3", "offset=1.5"} {
		rec := serve(httptest.NewRequest(http.MethodGet, "/?"+q, nil), func(c *appctx.Context) {
			_, ok := c.Page()
			assert.False(t, ok, q)
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), `"error"`, q)
	}
}

func TestDecodeJSON(t *testing.T) {
	type in struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Asha","extra":1}`))
	serve(req, func(c *appctx.Context) {
		var v in
		require.True(t, c.DecodeJSON(&v))
		assert.Equal(t, "Asha", v.Name)
	})

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Asha","extra":1}`))
	rec := serve(req, func(c *appctx.Context) {
		var v in
		assert.False(t, c.DecodeStrictJSON(&v))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown field")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	rec = serve(req, func(c *appctx.Context) {
		var v in
		assert.False(t, c.DecodeJSON(&v))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestDecodeJSONTooLarge(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "4194304") })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	rec := serve(req, func(c *appctx.Context) {
		var v map[string]any
		assert.False(t, c.DecodeJSON(&v))
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestList(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.List([]string{"a"}, orm.Pagination{Total: 1, Limit: 100})
	})
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.JSONEq(t, `["a"]`, rec.Body.String())
}
