// Package response writes the JSON bodies every endpoint shares:
// {"message": ...} on success, {"error": ...} on failure, and bare arrays for
// lists with the paging window in headers.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/shashikala/pkg/orm"
)

// Paging headers set by List.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderLimit      = "X-Limit"
	HeaderOffset     = "X-Offset"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Message writes {"message": msg} plus any extra top-level fields.
func Message(w http.ResponseWriter, status int, msg string, extra ...map[string]any) {
	body := map[string]any{"message": msg}
	for _, e := range extra {
		for k, v := range e {
			body[k] = v
		}
	}
	JSON(w, status, body)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// List writes items as a JSON array and the window as headers.
func List(w http.ResponseWriter, items any, p orm.Pagination) {
	h := w.Header()
	h.Set(HeaderTotalCount, strconv.FormatInt(p.Total, 10))
	h.Set(HeaderLimit, strconv.Itoa(p.Limit))
	h.Set(HeaderOffset, strconv.Itoa(p.Offset))
	JSON(w, http.StatusOK, items)
}

func Unauthorized(w http.ResponseWriter, msg string) { Error(w, http.StatusUnauthorized, msg) }
func Forbidden(w http.ResponseWriter, msg string)    { Error(w, http.StatusForbidden, msg) }
func NotFound(w http.ResponseWriter)                 { Error(w, http.StatusNotFound, "Not found") }

func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal server error")
}
