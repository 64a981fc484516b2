// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"strings"

	"hotelcms/internal/models"
	"hotelcms/internal/validate"
)

// CategoryInput is the admin payload for creating or editing a category.
// A full update replaces every field, so RoomCount is required on both
// paths; zero is a valid count. On update a nil Prices leaves the tier set untouched; an empty, non-nil
// Prices removes every tier.
type CategoryInput struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Description  string            `json:"description" validate:"required,max=5000"`
	Features     map[string]bool   `json:"features" validate:"max=50"`
	Amenities    []string          `json:"amenities" validate:"max=50,dive,required,max=100"`
	BedType      *string           `json:"bedType" validate:"omitempty,max=100"`
	MaxOccupancy *string           `json:"maxOccupancy" validate:"omitempty,max=100"`
	RoomSize     *string           `json:"roomSize" validate:"omitempty,max=100"`
	RoomCount    *int              `json:"roomCount" validate:"required,gte=0,lte=10000"`
	Images       []models.MediaRef `json:"images" validate:"max=30,dive"`
	VideoURL     *string           `json:"videoUrl" validate:"omitempty,url,max=2048"`
	Prices       []PriceInput      `json:"prices" validate:"dive"`
}

// PriceInput is one submitted price tier.
type PriceInput struct {
	HourlyHours int     `json:"hourlyHours" validate:"gt=0,lte=8760"`
	RateCents   int64   `json:"rateCents" validate:"gte=0"`
	Label       *string `json:"label" validate:"omitempty,max=100"`
}

// PriceSetInput is a price tier set submitted on its own.
type PriceSetInput struct {
	Prices []PriceInput `json:"prices" validate:"dive"`
}

// Normalize trims strings, turns blank optional fields into nil and drops
// price tiers beyond the fourth.
func (in *CategoryInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	validate.Normalize(&in.BedType)
	validate.Normalize(&in.MaxOccupancy)
	validate.Normalize(&in.RoomSize)
	validate.Normalize(&in.VideoURL)
	for i := range in.Images {
		in.Images[i].URL = strings.TrimSpace(in.Images[i].URL)
		in.Images[i].StorageKey = strings.TrimSpace(in.Images[i].StorageKey)
	}
	in.Prices = normalizePrices(in.Prices)
}

// hasCategoryFields reports whether any category field survived normalization.
func (in *CategoryInput) hasCategoryFields() bool {
	return in.Title != "" || in.Description != "" ||
		in.Features != nil || in.Amenities != nil ||
		in.BedType != nil || in.MaxOccupancy != nil || in.RoomSize != nil ||
		in.RoomCount != nil || in.Images != nil || in.VideoURL != nil
}

// priceOnly reports whether the payload only carries a new tier set.
func (in *CategoryInput) priceOnly() bool {
	return !in.hasCategoryFields() && in.Prices != nil
}

// toCategory builds the row to persist. Slug and ID are set by the caller.
func (in *CategoryInput) toCategory() *models.HotelCategory {
	c := &models.HotelCategory{
		Title:        in.Title,
		Description:  in.Description,
		Features:     in.Features,
		Amenities:    in.Amenities,
		BedType:      in.BedType,
		MaxOccupancy: in.MaxOccupancy,
		RoomSize:     in.RoomSize,
		VideoURL:     in.VideoURL,
		Prices:       toPrices(in.Prices),
	}
	if in.RoomCount != nil {
		c.RoomCount = *in.RoomCount
	}
	for _, ref := range in.Images {
		c.Images = append(c.Images, models.GalleryImage{URL: ref.URL, PublicID: ref.StorageKey})
	}
	return c
}

func normalizePrices(in []PriceInput) []PriceInput {
	in = models.TruncateTiers(in)
	for i := range in {
		validate.Normalize(&in[i].Label)
	}
	return in
}

func toPrices(in []PriceInput) []models.Price {
	if in == nil {
		return nil
	}
	out := make([]models.Price, len(in))
	for i, p := range in {
		out[i] = models.Price{HourlyHours: p.HourlyHours, RateCents: p.RateCents, Label: p.Label}
	}
	return out
}

// GalleryInput is the admin payload for a standalone gallery item. URL and
// StorageKey reference an object that is already uploaded; both are empty
// when a file accompanies the request instead.
type GalleryInput struct {
	URL        string  `json:"url" validate:"omitempty,max=2048"`
	StorageKey string  `json:"storageKey" validate:"omitempty,max=512"`
	Category   string  `json:"category" validate:"required,max=50"`
	Caption    *string `json:"caption" validate:"omitempty,max=300"`
	CategoryID *int64  `json:"categoryId" validate:"omitempty,gt=0"`
}

// Normalize trims strings and turns a blank caption into nil.
func (in *GalleryInput) Normalize() {
	in.URL = strings.TrimSpace(in.URL)
	in.StorageKey = strings.TrimSpace(in.StorageKey)
	in.Category = strings.TrimSpace(in.Category)
	validate.Normalize(&in.Caption)
}

// hasMedia reports whether a url and storage key pair was supplied.
func (in *GalleryInput) hasMedia() bool {
	return in.URL != "" && in.StorageKey != ""
}

// checkMedia rejects a url without a key or a key without a url.
func (in *GalleryInput) checkMedia() error {
	switch {
	case in.URL != "" && in.StorageKey == "":
		return validate.Field("storageKey", "is required with url")
	case in.URL == "" && in.StorageKey != "":
		return validate.Field("url", "is required with storageKey")
	}
	return nil
}

// Upload is a raw file received with a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}
