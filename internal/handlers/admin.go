// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"hotelcms/internal/service"
	"hotelcms/internal/validate"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// Admin groups the authenticated JSON handlers that mutate categories,
// prices and the gallery. Routes are guarded by middleware.RequireAdmin.
type Admin struct {
	categories *service.CategoryService
	prices     *service.PriceService
	gallery    *service.GalleryService
	storage    service.Storage
	maxUpload  int64
}

// NewAdmin creates a new Admin handler group. maxUpload caps multipart
// bodies and should be the largest size the storage policy accepts.
func NewAdmin(categories *service.CategoryService, prices *service.PriceService, gallery *service.GalleryService, storage service.Storage, maxUpload int64) *Admin {
	return &Admin{
		categories: categories,
		prices:     prices,
		gallery:    gallery,
		storage:    storage,
		maxUpload:  maxUpload,
	}
}

// CategoryCreate handles POST /api/admin/categories.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

// CategoryUpdate handles PUT /api/admin/categories/{id}. A body carrying
// only prices replaces the tiers and leaves the other fields untouched.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.categories.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// CategoryDelete handles DELETE /api/admin/categories/{id}.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"id": id})
}

// PricesReplace handles PUT /api/admin/categories/{id}/prices.
func (a *Admin) PricesReplace(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.PriceSetInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	list, err := a.prices.Replace(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

// PricesClear handles DELETE /api/admin/categories/{id}/prices.
func (a *Admin) PricesClear(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.prices.Clear(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"categoryId": id})
}

// GalleryCreate handles POST /api/admin/gallery. The body is either JSON
// referencing an uploaded object, or a multipart form carrying the file
// together with the item's fields.
func (a *Admin) GalleryCreate(w http.ResponseWriter, r *http.Request) {
	var (
		in   service.GalleryInput
		file *service.Upload
	)

	if isMultipart(r) {
		var err error
		file, err = a.readUpload(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		in, err = galleryForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
	} else if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.gallery.Create(r.Context(), in, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, item)
}

// GalleryUpdate handles PUT /api/admin/gallery/{id}.
func (a *Admin) GalleryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.GalleryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.gallery.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

// GalleryDelete handles DELETE /api/admin/gallery/{id}.
func (a *Admin) GalleryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.gallery.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"id": id})
}

// Upload handles POST /api/admin/uploads. It stores the multipart "file"
// and returns its public URL and storage key, which clients then reference
// from category images, the category video or gallery items.
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	file, err := a.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	if file == nil {
		writeError(w, r, validate.Field("file", "is required"))
		return
	}

	obj, err := a.storage.Upload(r.Context(), file.Filename, file.Data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("file uploaded", "key", obj.Key, "content_type", obj.ContentType, "size", obj.Size)
	writeData(w, http.StatusCreated, map[string]any{
		"url":         obj.URL,
		"key":         obj.Key,
		"contentType": obj.ContentType,
		"size":        obj.Size,
	})
}

// readUpload parses a multipart body and reads its "file" part. It returns
// nil without error when no file was sent. On success the caller owns
// r.MultipartForm and must remove its temporary files.
func (a *Admin) readUpload(w http.ResponseWriter, r *http.Request) (*service.Upload, error) {
	if !isMultipart(r) {
		return nil, validate.Field("file", "request must be multipart/form-data")
	}

	// Allow some headroom over the file limit for the other form fields.
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, validate.Field("file", "invalid multipart form")
	}

	f, hdr, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &service.Upload{Filename: hdr.Filename, Data: data}, nil
}

// galleryForm reads gallery item fields from a parsed multipart form.
func galleryForm(r *http.Request) (service.GalleryInput, error) {
	in := service.GalleryInput{
		URL:        r.FormValue("url"),
		StorageKey: r.FormValue("storageKey"),
		Category:   r.FormValue("category"),
	}
	if caption := r.FormValue("caption"); caption != "" {
		in.Caption = &caption
	}
	if raw := strings.TrimSpace(r.FormValue("categoryId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, validate.Field("categoryId", "must be a positive integer")
		}
		in.CategoryID = &id
	}
	return in, nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
