// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// LoginRateLimit allows limit requests per client IP per minute and answers
// the rest with a JSON 429.
func LoginRateLimit(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("login rate limit exceeded", "remote", r.RemoteAddr)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
		}),
	)
}
