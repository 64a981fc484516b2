package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFIssuesCookieOnSafeRequest(t *testing.T) {
	next, called := okHandler()
	rr := httptest.NewRecorder()
	CSRF(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if !*called {
		t.Error("GET should pass without a token")
	}
	c := csrfCookie(rr)
	if c == nil {
		t.Fatal("expected CSRF cookie")
	}
	if len(c.Value) != csrfTokenLength*2 {
		t.Errorf("token length: got %d", len(c.Value))
	}
	if c.HttpOnly {
		t.Error("CSRF cookie must be readable by scripts")
	}
}

func TestCSRFValidation(t *testing.T) {
	const token = "abc123"

	tests := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
	}{
		{"matching token", token, token, http.StatusOK},
		{"missing header", token, "", http.StatusForbidden},
		{"wrong header", token, "nope", http.StatusForbidden},
		{"no cookie", "", token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			CSRF(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if *called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("next called: %v", *called)
			}
		})
	}
}

func TestSetCSRFCookieRotates(t *testing.T) {
	rr := httptest.NewRecorder()
	a, err := SetCSRFCookie(rr)
	if err != nil {
		t.Fatalf("SetCSRFCookie: %v", err)
	}
	b, _ := SetCSRFCookie(httptest.NewRecorder())
	if a == b {
		t.Error("expected distinct tokens")
	}
	if c := csrfCookie(rr); c == nil || c.Value != a {
		t.Errorf("cookie does not carry the returned token: %v", c)
	}
}
