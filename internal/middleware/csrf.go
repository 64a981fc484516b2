package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
)

const (
	// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "hc_csrf"

	// CSRFHeaderName is the header clients echo the token in.
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRF guards state-changing requests with a double-submit token: the
// hc_csrf cookie value must come back in the X-CSRF-Token header. Callers
// without a token cookie get one issued on the way through.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ensureCSRFToken(w, r)
		if err != nil {
			slog.Error("csrf token generation failed", "error", err, "request_id", requestID(r))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if !safeMethod(r.Method) && !tokensMatch(token, r.Header.Get(CSRFHeaderName)) {
			writeError(w, http.StatusForbidden, "CSRF token mismatch")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ensureCSRFToken returns the request's token, issuing a cookie first if
// there is none. A new token is also added to r so handlers can read it.
func ensureCSRFToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := GetCSRFToken(r); token != "" {
		return token, nil
	}
	token, err := SetCSRFCookie(w)
	if err != nil {
		return "", err
	}
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	return token, nil
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func tokensMatch(want, got string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// SetCSRFCookie issues a fresh token cookie and returns the token. Login
// calls it so a new session never reuses a token from before.
func SetCSRFCookie(w http.ResponseWriter) (string, error) {
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // the admin UI reads it to fill the header
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// GetCSRFToken extracts the current CSRF token from the request cookie.
func GetCSRFToken(r *http.Request) string {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// generateCSRFToken creates a cryptographically random token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
