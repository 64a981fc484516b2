// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader echoes the request ID back to the client so error
// reports can be matched to server logs.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an ID (or keeps the one the proxy sent)
// and returns it in the response headers.
func RequestID(next http.Handler) http.Handler {
	return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RequestIDHeader, chimw.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	}))
}

// requestID returns the ID assigned by RequestID, or "" outside it.
func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
