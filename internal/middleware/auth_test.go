package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelcms/internal/session"
)

// stubLoader returns a fixed session or error.
type stubLoader struct {
	data *session.Data
	err  error
}

func (s stubLoader) Get(context.Context, *http.Request) (*session.Data, error) {
	return s.data, s.err
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	if SessionFromCtx(context.Background()) != nil {
		t.Error("expected nil session on empty context")
	}

	sess := &session.Data{AdminID: 7, Username: "admin"}
	got := SessionFromCtx(WithSession(context.Background(), sess))
	if got != sess {
		t.Errorf("SessionFromCtx: got %+v, want %+v", got, sess)
	}
}

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name    string
		loader  stubLoader
		cookie  bool
		wantSet bool
	}{
		{"session present", stubLoader{data: &session.Data{AdminID: 1}}, true, true},
		{"no cookie skips store", stubLoader{data: &session.Data{AdminID: 1}}, false, false},
		{"no session", stubLoader{}, true, false},
		{"store error treated as anonymous", stubLoader{err: errors.New("valkey down")}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			h := LoadSession(tt.loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = SessionFromCtx(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid"})
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if (got != nil) != tt.wantSet {
				t.Errorf("session in context: got %v, want set=%v", got, tt.wantSet)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Run("rejects anonymous with JSON 401", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/categories/1", nil))

		if *called {
			t.Error("next handler must not run without a session")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Success || body.Error == "" {
			t.Errorf("unexpected body %+v", body)
		}
	})

	t.Run("passes with session", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/categories", nil)
		req = req.WithContext(WithSession(req.Context(), &session.Data{AdminID: 1}))
		rr := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("expected pass-through, got called=%v status=%d", *called, rr.Code)
		}
	})
}
