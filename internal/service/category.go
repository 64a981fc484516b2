// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hotelcms/internal/models"
	"hotelcms/internal/slug"
	"hotelcms/internal/store"
	"hotelcms/internal/validate"
)

// CategoryService runs the category create, edit and delete workflows.
type CategoryService struct {
	categories CategoryRepo
	prices     PriceRepo
	storage    Storage
	cleanup    *cleaner
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories CategoryRepo, prices PriceRepo, storage Storage) *CategoryService {
	return &CategoryService{
		categories: categories,
		prices:     prices,
		storage:    storage,
		cleanup:    newCleaner(storage),
	}
}

// List returns categories newest first, optionally restricted to one slug.
func (s *CategoryService) List(ctx context.Context, slug string) ([]models.HotelCategory, error) {
	cats, err := s.categories.List(ctx, slug)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []models.HotelCategory{}
	}
	return cats, nil
}

// Get returns a category with its images and prices.
func (s *CategoryService) Get(ctx context.Context, id int64) (*models.HotelCategory, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// GetBySlug returns a category with its images and prices.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.HotelCategory, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Create validates the payload and stores the category together with its
// images, video URL and price tiers. The referenced files must already be
// uploaded.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.HotelCategory, error) {
	in.Normalize()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	c := in.toCategory()
	c.Slug = slug.Generate(c.Title)
	if c.Slug == "" {
		return nil, validate.Field("title", "must contain a letter or digit")
	}

	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	slog.Info("category created", "id", created.ID, "slug", created.Slug, "images", len(created.Images))
	return created, nil
}

// Update applies an edit. A payload that carries only prices replaces the
// tier set and nothing else. Any other payload replaces the whole category:
// its fields, its image list and its video URL, plus the tier set when
// prices are present. Images and video that are no longer referenced are
// removed from storage after the database update.
func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryInput) (*models.HotelCategory, error) {
	in.Normalize()

	if in.priceOnly() {
		if _, err := replaceTiers(ctx, s.prices, id, in.Prices); err != nil {
			return nil, err
		}
		return s.Get(ctx, id)
	}

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	c := in.toCategory()
	c.ID = id
	c.Slug = slug.Generate(c.Title)
	if c.Slug == "" {
		return nil, validate.Field("title", "must contain a letter or digit")
	}

	stale := staleImageKeys(existing.Images, in.Images)
	if key, ok := s.staleVideoKey(existing.VideoURL, in.VideoURL); ok {
		stale = append(stale, key)
	}

	updated, err := s.categories.Update(ctx, c, in.Prices != nil)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.cleanup.now(ctx, "category update", stale)

	slog.Info("category updated", "id", id, "slug", updated.Slug, "removed_objects", len(stale))
	return updated, nil
}

// Delete removes the category, its images and its prices. Storage objects
// are removed in the background afterwards; call Wait to drain them.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrNotFound
	}

	keys := deleted.ImageKeys()
	if key, ok := s.staleVideoKey(deleted.VideoURL, nil); ok {
		keys = append(keys, key)
	}
	s.cleanup.later(ctx, "category delete", keys)

	slog.Info("category deleted", "id", id, "slug", deleted.Slug, "objects", len(keys))
	return nil
}

// Wait blocks until background storage cleanups have finished.
func (s *CategoryService) Wait() {
	s.cleanup.Wait()
}

// replaceTiers validates a normalized tier list and replaces the category's
// tier set with it.
func replaceTiers(ctx context.Context, repo PriceRepo, id int64, in []PriceInput) ([]models.Price, error) {
	if err := validate.Struct(PriceSetInput{Prices: in}); err != nil {
		return nil, err
	}
	prices, err := repo.Replace(ctx, id, toPrices(in))
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return prices, nil
}

// staleVideoKey returns the storage key of the old video when the video URL
// changed or was removed.
func (s *CategoryService) staleVideoKey(old, updated *string) (string, bool) {
	if old == nil || *old == "" {
		return "", false
	}
	if updated != nil && *updated == *old {
		return "", false
	}
	key, ok := s.storage.ExtractKey(*old)
	if !ok {
		slog.Warn("video storage key not recoverable, skipping cleanup", "url", *old)
		return "", false
	}
	return key, true
}

// staleImageKeys returns the keys of existing images that the new list no
// longer references.
func staleImageKeys(existing []models.GalleryImage, next []models.MediaRef) []string {
	keep := make(map[string]struct{}, len(next))
	for _, ref := range next {
		keep[ref.StorageKey] = struct{}{}
	}

	var stale []string
	for _, img := range existing {
		if img.PublicID == "" {
			continue
		}
		if _, ok := keep[img.PublicID]; !ok {
			stale = append(stale, img.PublicID)
		}
	}
	return stale
}

// mapStoreErr translates store sentinels into service errors.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: a category with this title already exists", ErrConflict)
	}
	return err
}
