package storage

import (
	"regexp"
	"testing"
	"time"
)

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"file form", "https://host/f/ABC123", "ABC123", true},
		{"app form", "https://host/a/app1/ABC123", "ABC123", true},
		{"bare suffix with query", "https://host/x/y/ABC123?q=1", "ABC123", true},
		{"fragment ignored", "https://host/f/ABC123#top", "ABC123", true},
		{"trailing slash", "https://host/f/ABC123/", "ABC123", true},
		{"escaped key", "https://host/f/a%20b", "a b", true},
		{"empty", "", "", false},
		{"host only", "https://host", "", false},
		{"root path", "https://host/", "", false},
		{"not a url", "not a url", "", false},
		{"bad escape", "https://host/f/%zz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyFromURL(tt.url)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("KeyFromURL(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNewKeyShape(t *testing.T) {
	now := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	key := NewKey(now, ".jpg")

	shape := regexp.MustCompile(`^media/2026/03/[0-9a-f-]{36}\.jpg$`)
	if !shape.MatchString(key) {
		t.Errorf("NewKey = %q, want media/2026/03/<uuid>.jpg", key)
	}
	if NewKey(now, ".jpg") == key {
		t.Error("expected distinct keys across calls")
	}
}
