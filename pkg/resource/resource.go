// Package resource maps models onto the JSON shapes the API returns, so a
// model can grow columns without leaking them to clients.
//
//	func Event(e models.Event) EventResource { ... }
//
//	x.List(resource.Collection(events, resources.Event), page)
//	x.JSON(http.StatusOK, resources.Event(*ev))
package resource

import (
	"time"
)

// ISOLayout is how timestamps are rendered: ISO-8601 in UTC with no zone
// suffix.
const ISOLayout = "2006-01-02T15:04:05"

// Collection maps every item through fn. The result is never nil, so an empty
// list encodes as [] rather than null.
func Collection[M, R any](items []M, fn func(M) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// Time is a timestamp that encodes as ISOLayout.
type Time time.Time

func (t Time) String() string { return time.Time(t).UTC().Format(ISOLayout) }

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// OptionalString turns "" into nil, for fields rendered only when set.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
