// Package validate checks request structs against `validate` struct tags.
//
// Rules are comma separated and run left to right; the first failing rule
// of a field is reported and the rest of that field is skipped.
//
//	required        field must be present and non-blank
//	nullable        an absent or blank value skips the remaining rules
//	email           well-formed email address
//	url             http or https URL
//	date            parseable by ParseDate
//	alpha_dash      letters, digits, hyphens and underscores
//	min=N / max=N   string: rune length, number: value
//	gte=N / lte=N   number bounds
//	oneof=a b c     value is one of the space separated items
//
// Pointer fields are how request structs tell "absent" from "zero": a nil
// pointer is empty, a non-nil pointer is checked through its element, so an
// explicit 0 satisfies required.
//
//	type Input struct {
//	    Title string  `json:"title" validate:"required,max=200"`
//	    Price *float64 `json:"price" validate:"required,gte=0"`
//	    Email *string `json:"email" validate:"nullable,email"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors holds failures in struct field order.
type Errors []FieldError

// HasErrors reports whether any rule failed.
func (e Errors) HasErrors() bool { return len(e) > 0 }

// First returns the earliest failure, or a zero FieldError.
func (e Errors) First() FieldError {
	if len(e) == 0 {
		return FieldError{}
	}
	return e[0]
}

// Get returns the message for field, if it failed.
func (e Errors) Get(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Struct validates every exported field of v that carries a `validate` tag.
func Struct(v any) Errors {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var errs Errors
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}

		name := jsonFieldName(sf)
		rules := strings.Split(tag, ",")
		value, present := deref(rv.Field(i))
		empty := !present || isBlank(value)
		if present && rv.Field(i).Kind() == reflect.Ptr && value.Kind() != reflect.String {
			// A pointer to a zero number was sent explicitly.
			empty = false
		}

		if empty && contains(rules, "nullable") {
			continue
		}
		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if rule != "required" && empty {
				// Only required speaks for absent values.
				continue
			}
			if msg := check(rule, name, value, empty); msg != "" {
				errs = append(errs, FieldError{Field: name, Message: msg})
				break
			}
		}
	}
	return errs
}

func check(rule, field string, v reflect.Value, empty bool) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if empty {
			return fmt.Sprintf("Missing required field: %s", field)
		}

	case "email":
		if !emailRE.MatchString(text(v)) {
			return fmt.Sprintf("Invalid %s: must be a valid email address", field)
		}
	case "url":
		u, err := url.ParseRequestURI(text(v))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("Invalid %s: must be a valid URL", field)
		}
	case "date":
		if _, err := ParseDate(text(v)); err != nil {
			return fmt.Sprintf("Invalid %s: unrecognised date format", field)
		}
	case "alpha_dash":
		for _, c := range text(v) {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("Invalid %s: only letters, numbers, dashes and underscores are allowed", field)
			}
		}

	case "min", "max":
		n, _ := strconv.ParseFloat(param, 64)
		if isNumber(v) {
			if f := toFloat(v); (key == "min" && f < n) || (key == "max" && f > n) {
				return fmt.Sprintf("Invalid %s: must be %s %s", field, bound(key), param)
			}
			return ""
		}
		l := float64(len([]rune(text(v))))
		if (key == "min" && l < n) || (key == "max" && l > n) {
			return fmt.Sprintf("Invalid %s: must be %s %s characters", field, bound(key), param)
		}
	case "gte", "lte":
		n, _ := strconv.ParseFloat(param, 64)
		if f := toFloat(v); (key == "gte" && f < n) || (key == "lte" && f > n) {
			return fmt.Sprintf("Invalid %s: must be %s %s", field, bound(key), param)
		}

	case "oneof":
		s := text(v)
		for _, opt := range strings.Fields(param) {
			if s == opt {
				return ""
			}
		}
		return fmt.Sprintf("Invalid %s: must be one of %s", field, strings.Join(strings.Fields(param), ", "))

	default:
		panic(fmt.Sprintf("validate: unknown rule %q on %s", key, field))
	}
	return ""
}

func bound(key string) string {
	if key == "min" || key == "gte" {
		return "at least"
	}
	return "at most"
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 and the common ISO-8601 shapes without an
// offset. Values without an offset are taken as UTC; the result is always UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("validate: cannot parse %q as a date", s)
}

// deref follows pointers; present is false when a nil pointer is reached.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, true
}

func isBlank(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(text(v), 64)
	return f
}

func text(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func contains(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
