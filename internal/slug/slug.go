// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

// Separator joins the alphanumeric runs of a slug.
const Separator = "-"

// nonAlphanumeric matches every run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
//
// The result only contains lowercase ASCII letters, digits and single
// separators, never starts or ends with a separator, and Generate(Generate(s))
// == Generate(s).
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, Separator)
	return strings.Trim(result, Separator)
}
