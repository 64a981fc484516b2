// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewKey builds a storage key of the form media/<yyyy>/<mm>/<uuid><ext>.
func NewKey(now time.Time, ext string) string {
	return fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)
}

// keyRule maps a URL path shape to the key it carries.
type keyRule struct {
	name    string
	pattern *regexp.Regexp
}

// keyRules are tried in order against the URL path; the first match wins
// and its first submatch is the key.
var keyRules = []keyRule{
	{"file", regexp.MustCompile(`^/f/([^/]+)/?$`)},
	{"app", regexp.MustCompile(`^/a/[^/]+/([^/]+)/?$`)},
	{"suffix", regexp.MustCompile(`/([^/]+)/?$`)},
}

// KeyFromURL extracts a storage key from a file URL in one of the known
// shapes: /f/<key>, /a/<app>/<key>, or the last path segment of any other
// URL. Query string and fragment are ignored. It returns ("", false) when
// no rule yields a key.
func KeyFromURL(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	path := u.EscapedPath()
	if path == "" {
		return "", false
	}

	for _, r := range keyRules {
		m := r.pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		key, err := url.PathUnescape(m[1])
		if err != nil || key == "" {
			return "", false
		}
		return key, true
	}
	return "", false
}

// stripQuery drops the query string and fragment from a URL.
func stripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
