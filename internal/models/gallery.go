// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Gallery labels used by the public site. The label column is free text;
// these are the values the admin UI offers.
const (
	GalleryExterior  = "Exterior"
	GalleryRooms     = "Rooms"
	GalleryDining    = "Dining"
	GalleryAmenities = "Amenities"
)

// GalleryImage is a file in object storage referenced by URL and key.
// Rows with CategoryID set belong to a HotelCategory; rows without are
// standalone gallery items tagged with a Category label.
type GalleryImage struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	PublicID   string    `json:"publicId"`
	Caption    *string   `json:"caption,omitempty"`
	Category   *string   `json:"category,omitempty"`
	CategoryID *int64    `json:"categoryId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsStandalone reports whether the image is a gallery item rather than a
// category image.
func (g *GalleryImage) IsStandalone() bool {
	return g.CategoryID == nil
}
