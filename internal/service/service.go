// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the category and gallery workflows that keep
// database rows and object storage in step. The database is the source of
// truth: every operation commits its database change first and only then
// removes storage objects that are no longer referenced. Storage delete
// failures are logged and never reach the caller.
package service

import (
	"context"
	"errors"

	"hotelcms/internal/models"
	"hotelcms/internal/storage"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with a unique value,
	// such as a category slug already in use.
	ErrConflict = errors.New("conflict")
)

// Storage is the part of the object storage client the services use.
type Storage interface {
	Upload(ctx context.Context, filename string, data []byte) (*storage.Object, error)
	DeleteFiles(ctx context.Context, keys ...string) (storage.DeleteResult, error)
	ExtractKey(rawURL string) (string, bool)
}

// CategoryRepo persists categories with their images and prices.
type CategoryRepo interface {
	List(ctx context.Context, slug string) ([]models.HotelCategory, error)
	FindByID(ctx context.Context, id int64) (*models.HotelCategory, error)
	FindBySlug(ctx context.Context, slug string) (*models.HotelCategory, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, c *models.HotelCategory) (*models.HotelCategory, error)
	Update(ctx context.Context, c *models.HotelCategory, withPrices bool) (*models.HotelCategory, error)
	Delete(ctx context.Context, id int64) (*models.HotelCategory, error)
}

// PriceRepo persists price tier sets.
type PriceRepo interface {
	List(ctx context.Context) ([]models.Price, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Price, error)
	Replace(ctx context.Context, categoryID int64, tiers []models.Price) ([]models.Price, error)
	DeleteByCategory(ctx context.Context, categoryID int64) error
}

// GalleryRepo persists standalone gallery items.
type GalleryRepo interface {
	Create(ctx context.Context, g *models.GalleryImage) (*models.GalleryImage, error)
	FindByID(ctx context.Context, id int64) (*models.GalleryImage, error)
	List(ctx context.Context, label string) ([]models.GalleryImage, error)
	Update(ctx context.Context, g *models.GalleryImage) (*models.GalleryImage, error)
	Delete(ctx context.Context, id int64) (*models.GalleryImage, error)
}

// CategoryChecker reports whether a category exists.
type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
