// Package ctx provides the request context handed to controllers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a controller
// receives a single *Context:
//
//	func (c *EventController) Show(x *ctx.Context) {
//	    id, ok := x.ParamUint("event_id")
//	    if !ok {
//	        return // 404 already written
//	    }
//	    x.JSON(http.StatusOK, event)
//	}
//
//	router.Get("/events/{event_id:[0-9]+}", "events.show", ctx.Wrap(c.Show))
package ctx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/shashikala/config"
	"github.com/shashiranjanraj/shashikala/pkg/bind"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. On failure it writes 404 and
// returns false; routes constrain ids to digits, so only overflow lands here.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 0)
	if err != nil || n == 0 {
		c.NotFound()
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value, or "" if absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger.
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Page reads limit and offset from the query string. Missing values take the
// configured default; limit is capped at PAGE_MAX_LIMIT. A malformed value
// writes 400 and returns false.
func (c *Context) Page() (orm.Page, bool) {
	page := orm.Page{Limit: config.PageDefaultLimit()}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.Error(http.StatusBadRequest, "limit must be a positive integer")
			return page, false
		}
		page.Limit = min(n, config.PageMaxLimit())
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.Error(http.StatusBadRequest, "offset must be a non-negative integer")
			return page, false
		}
		page.Offset = n
	}
	return page, true
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// DecodeJSON decodes the body into dest, ignoring unknown fields. On failure
// it writes 400 (413 for an oversized body) and returns false.
func (c *Context) DecodeJSON(dest any) bool {
	return c.decoded(bind.JSON(c.R, dest))
}

// DecodeStrictJSON is DecodeJSON but rejects fields dest does not declare.
func (c *Context) DecodeStrictJSON(dest any) bool {
	return c.decoded(bind.StrictJSON(c.R, dest))
}

func (c *Context) decoded(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, bind.ErrTooLarge):
		c.Error(http.StatusRequestEntityTooLarge, err.Error())
	default:
		c.Error(http.StatusBadRequest, err.Error())
	}
	return false
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Message writes {"message": msg} plus optional extra fields.
func (c *Context) Message(code int, msg string, extra ...map[string]any) {
	c.status = code
	response.Message(c.W, code, msg, extra...)
}

// Error writes {"error": msg}.
func (c *Context) Error(code int, msg string) {
	c.status = code
	response.Error(c.W, code, msg)
}

// NotFound writes 404 {"error":"Not found"}.
func (c *Context) NotFound() {
	c.Error(http.StatusNotFound, "Not found")
}

// List writes a JSON array with paging headers.
func (c *Context) List(items any, p orm.Pagination) {
	c.status = http.StatusOK
	response.List(c.W, items, p)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
