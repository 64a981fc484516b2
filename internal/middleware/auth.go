// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"hotelcms/internal/session"
)

type sessionCtxKey struct{}

// SessionLoader looks up the session belonging to a request.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession attaches the caller's admin session, if any, to the request
// context. Requests without a session cookie never reach the store, so
// public traffic costs no Valkey round trip. A failing store is logged and
// the request continues anonymously; RequireAdmin decides what that means.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := r.Cookie(session.CookieName); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			data, err := store.Get(r.Context(), r)
			switch {
			case err != nil:
				slog.Warn("session load failed",
					"error", err,
					"path", r.URL.Path,
					"request_id", requestID(r),
				)
			case data != nil:
				r = r.WithContext(WithSession(r.Context(), data))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 401 unless LoadSession found an admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx returns the admin session of the request, or nil for
// anonymous callers.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(sessionCtxKey{}).(*session.Data)
	return data
}

// WithSession returns a copy of ctx carrying data.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, data)
}
