// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"hotelcms/internal/service"
	"hotelcms/internal/service/servicetest"
	"hotelcms/internal/storage"
)

// fixture wires the handler groups to real services over in-memory fakes.
type fixture struct {
	db      *servicetest.MemDB
	storage *servicetest.Storage
	mux     chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := servicetest.NewMemDB()
	st := &servicetest.Storage{}
	categories := service.NewCategoryService(db.Categories(), db.Prices(), st)
	prices := service.NewPriceService(db.Prices(), db.Categories())
	gallery := service.NewGalleryService(db.Gallery(), db.Categories(), st)
	t.Cleanup(func() {
		categories.Wait()
		gallery.Wait()
	})

	public := NewPublic(categories, prices, gallery)
	admin := NewAdmin(categories, prices, gallery, st, storage.MaxVideoSize)

	mux := chi.NewRouter()
	mux.Get("/categories", public.Categories)
	mux.Get("/categories/{slug}", public.Category)
	mux.Get("/prices", public.Prices)
	mux.Get("/gallery", public.Gallery)
	mux.Post("/admin/categories", admin.CategoryCreate)
	mux.Put("/admin/categories/{id}", admin.CategoryUpdate)
	mux.Delete("/admin/categories/{id}", admin.CategoryDelete)
	mux.Put("/admin/categories/{id}/prices", admin.PricesReplace)
	mux.Delete("/admin/categories/{id}/prices", admin.PricesClear)
	mux.Post("/admin/gallery", admin.GalleryCreate)
	mux.Put("/admin/gallery/{id}", admin.GalleryUpdate)
	mux.Delete("/admin/gallery/{id}", admin.GalleryDelete)
	mux.Post("/admin/uploads", admin.Upload)

	return &fixture{db: db, storage: st, mux: mux}
}

// response is the decoded envelope of a test request.
type response struct {
	Status  int
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (f *fixture) serve(t *testing.T, req *http.Request) response {
	t.Helper()
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return decodeResponse(t, rr)
}

func (f *fixture) do(t *testing.T, method, path string, body any) response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return f.serve(t, req)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) response {
	t.Helper()
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type: got %q, want application/json (body %q)", ct, rr.Body.String())
	}
	var resp response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rr.Body.String())
	}
	resp.Status = rr.Code
	return resp
}

// into decodes the envelope's data field.
func (r response) into(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, r.Data)
	}
}

// multipartRequest builds a multipart POST with optional file part.
func multipartRequest(t *testing.T, path string, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// testPNG returns a small valid PNG image.
func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
