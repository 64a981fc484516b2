// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeS3 records requests and answers PutObject and DeleteObjects.
type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	failKey  string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodPut:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && r.URL.Query().Has("delete"):
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
		for _, part := range strings.Split(string(body), "<Key>")[1:] {
			key := part[:strings.Index(part, "</Key>")]
			if key == f.failKey {
				sb.WriteString("<Error><Key>" + key + "</Key><Code>AccessDenied</Code><Message>denied</Message></Error>")
				continue
			}
			sb.WriteString("<Deleted><Key>" + key + "</Key></Deleted>")
		}
		sb.WriteString("</DeleteResult>")
		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, sb.String())
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newTestClient(t *testing.T, publicURL string) (*Client, *fakeS3) {
	t.Helper()
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Options{
		Endpoint:  srv.URL,
		Region:    "auto",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "media",
		PublicURL: publicURL,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.now = func() time.Time { return time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC) }
	return c, fake
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Options{AccessKey: "a", SecretKey: "b"}); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestUploadStoresUnderNewKey(t *testing.T) {
	c, fake := newTestClient(t, "https://cdn.example.com")

	obj, err := c.Upload(context.Background(), "room.png", pngBytes(t, 2, 2))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(obj.Key, "media/2026/01/") || !strings.HasSuffix(obj.Key, ".png") {
		t.Errorf("unexpected key %q", obj.Key)
	}
	if obj.URL != "https://cdn.example.com/"+obj.Key {
		t.Errorf("URL = %q", obj.URL)
	}
	if obj.ContentType != "image/png" {
		t.Errorf("ContentType = %q", obj.ContentType)
	}
	if len(fake.requests) != 1 || fake.requests[0] != "PUT /media/"+obj.Key {
		t.Errorf("requests = %v", fake.requests)
	}
}

func TestUploadPolicyViolationWritesNothing(t *testing.T) {
	c, fake := newTestClient(t, "")

	if _, err := c.Upload(context.Background(), "notes.txt", []byte("plain text")); err == nil {
		t.Fatal("expected policy error")
	}
	if len(fake.requests) != 0 {
		t.Errorf("expected no storage requests, got %v", fake.requests)
	}
}

func TestDeleteFilesReportsPerKey(t *testing.T) {
	c, fake := newTestClient(t, "")
	fake.failKey = "bad"

	res, err := c.DeleteFiles(context.Background(), "k1", "bad", "k2")
	if err != nil {
		t.Fatalf("DeleteFiles: %v", err)
	}
	if len(res.Deleted) != 2 {
		t.Errorf("Deleted = %v, want 2 keys", res.Deleted)
	}
	if _, ok := res.Failed["bad"]; !ok || len(res.Failed) != 1 {
		t.Errorf("Failed = %v, want only bad", res.Failed)
	}
	if res.Err() == nil {
		t.Error("expected Err() to report the failed key")
	}
}

func TestDeleteFilesEmptyIsNoop(t *testing.T) {
	c, fake := newTestClient(t, "")

	res, err := c.DeleteFiles(context.Background())
	if err != nil || res.Err() != nil {
		t.Fatalf("DeleteFiles: %v, %v", err, res.Err())
	}
	if len(fake.requests) != 0 {
		t.Errorf("expected no requests, got %v", fake.requests)
	}
}

func TestFileURLAndExtractKey(t *testing.T) {
	c, _ := newTestClient(t, "https://cdn.example.com/")
	key := "media/2026/01/abc.png"

	url := c.FileURL(key)
	if url != "https://cdn.example.com/"+key {
		t.Fatalf("FileURL = %q", url)
	}

	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{url, key, true},
		{url + "?v=2", key, true},
		{c.endpoint + "/media/" + key, key, true},
		{"https://files.example.net/f/ABC123", "ABC123", true},
		{"https://files.example.net/", "", false},
	}
	for _, tt := range tests {
		got, ok := c.ExtractKey(tt.url)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractKey(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}
