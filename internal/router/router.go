// Package router sets up all HTTP routes and middleware chains for the
// hotel CMS API. It organizes routes into public, auth and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotelcms/internal/handlers"
	"hotelcms/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimit is the number of login attempts
// allowed per client IP per minute.
func New(sessions middleware.SessionLoader, loginLimit int, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.NotFound(jsonStatus(http.StatusNotFound, "Not found"))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "Method not allowed"))

	// Health check, no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)

		// Public reads.
		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}", public.Category)
		r.Get("/prices", public.Prices)
		r.Get("/gallery", public.Gallery)

		// Login has no session yet, so it is rate limited instead of
		// CSRF checked. It rotates the CSRF token on success.
		r.With(middleware.LoginRateLimit(loginLimit)).Post("/auth/login", auth.Login)
		r.With(middleware.CSRF).Get("/auth/me", auth.Me)
		r.With(middleware.CSRF).Post("/auth/logout", auth.Logout)

		// Admin area. The session check runs first so anonymous callers
		// get 401 rather than a CSRF failure.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.CSRF)

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CategoryCreate)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
				r.Put("/{id}/prices", admin.PricesReplace)
				r.Delete("/{id}/prices", admin.PricesClear)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Post("/", admin.GalleryCreate)
				r.Put("/{id}", admin.GalleryUpdate)
				r.Delete("/{id}", admin.GalleryDelete)
			})

			r.Post("/uploads", admin.Upload)

			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/enable", auth.TwoFAEnable)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// jsonStatus answers with a fixed error envelope.
func jsonStatus(status int, msg string) http.HandlerFunc {
	body := []byte(`{"success":false,"error":"` + msg + `"}`)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}
}
