// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hotelcms/internal/service"
	"hotelcms/internal/validate"
)

// Public groups the read-only handlers used by the public site. Nothing
// here requires a session.
type Public struct {
	categories *service.CategoryService
	prices     *service.PriceService
	gallery    *service.GalleryService
}

// NewPublic creates a new Public handler group.
func NewPublic(categories *service.CategoryService, prices *service.PriceService, gallery *service.GalleryService) *Public {
	return &Public{categories: categories, prices: prices, gallery: gallery}
}

// Categories lists room categories, newest first. An optional ?slug=
// narrows the list to at most one entry.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	list, err := p.categories.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("slug")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

// Category returns one category by slug with its images and prices.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	c, err := p.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// Prices lists price tiers ascending by duration, optionally for a single
// category via ?categoryId=.
func (p *Public) Prices(w http.ResponseWriter, r *http.Request) {
	var categoryID *int64
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, validate.Field("categoryId", "must be a positive integer"))
			return
		}
		categoryID = &id
	}

	list, err := p.prices.List(r.Context(), categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

// Gallery lists standalone gallery items, newest first, optionally
// filtered by ?category= label.
func (p *Public) Gallery(w http.ResponseWriter, r *http.Request) {
	list, err := p.gallery.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}
