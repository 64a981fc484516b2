// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate checks decoded request payloads with struct tags and
// reports every offending field by its JSON name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Error is a validation failure. Fields maps JSON field paths such as
// "title" or "prices[2].hourlyHours" to a human-readable message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns an Error for a single field. Services use it for checks
// that need the database, such as an unknown category id.
func Field(name, msg string) *Error {
	return &Error{Fields: map[string]string{name: msg}}
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates s and returns nil or an *Error.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		path := fe.Namespace()
		// Drop the root struct name.
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		if _, seen := out.Fields[path]; !seen {
			out.Fields[path] = message(fe)
		}
	}
	return out
}

// message turns a failed tag into the text shown next to the field.
func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// Blank reports whether p is nil or holds only whitespace.
func Blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}

// Normalize trims *p and sets it to nil when nothing is left, so a
// present-but-empty field is treated the same as an omitted one.
func Normalize(p **string) {
	if *p == nil {
		return
	}
	if Blank(*p) {
		*p = nil
		return
	}
	v := strings.TrimSpace(**p)
	*p = &v
}
