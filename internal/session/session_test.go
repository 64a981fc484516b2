package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testStore returns a Store on Valkey DB 15, isolated from dev data.
// Skips the test if Valkey is unavailable.
func testStore(t *testing.T, secure bool) *Store {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, prefix := range []string{keyPrefix, adminKeyPrefix} {
			keys, _ := client.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return NewStore(client, secure)
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1", "1", "")
	if err == nil {
		t.Fatal("expected error connecting to a closed port")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	store := testStore(t, true)
	ctx := context.Background()
	w := httptest.NewRecorder()

	id, err := store.Create(ctx, w, &Data{AdminID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != idLength*2 {
		t.Errorf("session id length: got %d, want %d", len(id), idLength*2)
	}

	cookie := sessionCookie(t, w)
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if !cookie.Secure {
		t.Error("expected Secure cookie for secure store")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite: got %v, want Strict", cookie.SameSite)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	got, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.AdminID != 1 || got.Username != "admin" {
		t.Fatalf("Get: got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestSessionGetNoCookie(t *testing.T) {
	store := testStore(t, false)

	data, err := store.Get(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || data != nil {
		t.Errorf("Get without cookie: got %v, %v; want nil, nil", data, err)
	}
}

func TestSessionGetUnknownID(t *testing.T) {
	store := testStore(t, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: strings.Repeat("0", idLength*2)})

	data, err := store.Get(context.Background(), req)
	if err != nil || data != nil {
		t.Errorf("Get unknown id: got %v, %v; want nil, nil", data, err)
	}
}

func TestSessionDestroy(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	if _, err := store.Create(ctx, w, &Data{AdminID: 1, Username: "admin"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(sessionCookie(t, w))

	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if c := sessionCookie(t, w2); c.MaxAge >= 0 {
		t.Errorf("expected expired cookie, got MaxAge %d", c.MaxAge)
	}

	data, _ := store.Get(ctx, req)
	if data != nil {
		t.Error("expected session to be gone after Destroy")
	}
}

func TestSessionDestroyNoCookie(t *testing.T) {
	store := testStore(t, false)
	w := httptest.NewRecorder()

	if err := store.Destroy(context.Background(), w, httptest.NewRequest(http.MethodPost, "/", nil)); err != nil {
		t.Errorf("Destroy without cookie: %v", err)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no cookie to be set")
	}
}

func TestSessionGetExtendsExpiry(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	id, err := store.Create(ctx, w, &Data{AdminID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	store.client.Expire(ctx, sessionKey(id), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, w))
	if data, err := store.Get(ctx, req); err != nil || data == nil {
		t.Fatalf("Get: %v, %v", data, err)
	}

	ttl, err := store.client.TTL(ctx, sessionKey(id)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= time.Hour {
		t.Errorf("ttl after Get: got %s, want close to %s", ttl, DefaultTTL)
	}
}

func TestSessionRevokeOthers(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	requests := make([]*http.Request, 3)
	for i := range requests {
		w := httptest.NewRecorder()
		if _, err := store.Create(ctx, w, &Data{AdminID: 7, Username: "admin"}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		requests[i] = httptest.NewRequest(http.MethodGet, "/", nil)
		requests[i].AddCookie(sessionCookie(t, w))
	}

	n, err := store.RevokeOthers(ctx, requests[0], 7)
	if err != nil {
		t.Fatalf("RevokeOthers: %v", err)
	}
	if n != 2 {
		t.Errorf("revoked: got %d, want 2", n)
	}

	if data, _ := store.Get(ctx, requests[0]); data == nil {
		t.Error("current session was revoked")
	}
	for _, req := range requests[1:] {
		if data, _ := store.Get(ctx, req); data != nil {
			t.Error("other session survived RevokeOthers")
		}
	}
}

func TestCookieID(t *testing.T) {
	valid := strings.Repeat("ab", idLength)
	tests := []struct {
		value string
		ok    bool
	}{
		{valid, true},
		{"short", false},
		{strings.Repeat("zz", idLength), false},
		{"", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.value != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.value})
		}
		if _, ok := cookieID(req); ok != tt.ok {
			t.Errorf("cookieID(%q): got %v, want %v", tt.value, ok, tt.ok)
		}
	}
}
