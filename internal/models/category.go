// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// HotelCategory represents one room type shown on the public site.
// It owns its category images and price tiers (ON DELETE CASCADE).
type HotelCategory struct {
	ID           int64           `json:"id"`
	Slug         string          `json:"slug"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Features     map[string]bool `json:"features"`
	Amenities    []string        `json:"amenities"`
	BedType      *string         `json:"bedType,omitempty"`
	MaxOccupancy *string         `json:"maxOccupancy,omitempty"`
	RoomSize     *string         `json:"roomSize,omitempty"`
	RoomCount    int             `json:"roomCount"`
	VideoURL     *string         `json:"videoUrl"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	// Populated by store methods that preload children.
	Images []GalleryImage `json:"images"`
	Prices []Price        `json:"prices"`
}

// ImageKeys returns the storage keys of the category's images, skipping
// rows that were saved without a key.
func (c *HotelCategory) ImageKeys() []string {
	keys := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		if img.PublicID != "" {
			keys = append(keys, img.PublicID)
		}
	}
	return keys
}

// ImageCaption returns the caption given to the n-th (1-based) image of a
// category with the given title.
func ImageCaption(title string, n int) string {
	return fmt.Sprintf("%s - Image %d", title, n)
}

// MediaRef points at an object that already exists in object storage.
type MediaRef struct {
	URL        string `json:"url" validate:"required,max=2048"`
	StorageKey string `json:"storageKey" validate:"required,max=512"`
}
