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
	"hotelcms/internal/store"
	"hotelcms/internal/validate"
)

// GalleryService runs the workflows for standalone gallery items.
type GalleryService struct {
	gallery    GalleryRepo
	categories CategoryChecker
	storage    Storage
	cleanup    *cleaner
}

// NewGalleryService creates a GalleryService.
func NewGalleryService(gallery GalleryRepo, categories CategoryChecker, storage Storage) *GalleryService {
	return &GalleryService{
		gallery:    gallery,
		categories: categories,
		storage:    storage,
		cleanup:    newCleaner(storage),
	}
}

// List returns gallery items newest first, optionally filtered by label.
func (s *GalleryService) List(ctx context.Context, label string) ([]models.GalleryImage, error) {
	items, err := s.gallery.List(ctx, label)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.GalleryImage{}
	}
	return items, nil
}

// Create stores a gallery item. When file is non-nil it is uploaded first
// and an upload failure aborts without a database write. Otherwise the
// input must reference an already uploaded object.
func (s *GalleryService) Create(ctx context.Context, in GalleryInput, file *Upload) (*models.GalleryImage, error) {
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}

	uploaded := false
	if file != nil {
		obj, err := s.storage.Upload(ctx, file.Filename, file.Data)
		if err != nil {
			return nil, fmt.Errorf("gallery upload: %w", err)
		}
		in.URL, in.StorageKey = obj.URL, obj.Key
		uploaded = true
	} else if !in.hasMedia() {
		return nil, validate.Field("file", "a file or a url and storageKey is required")
	}

	created, err := s.gallery.Create(ctx, &models.GalleryImage{
		URL:        in.URL,
		PublicID:   in.StorageKey,
		Caption:    in.Caption,
		Category:   &in.Category,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		if uploaded {
			s.cleanup.now(ctx, "gallery create rollback", []string{in.StorageKey})
		}
		return nil, mapGalleryErr(err)
	}

	slog.Info("gallery item created", "id", created.ID, "label", in.Category, "uploaded", uploaded)
	return created, nil
}

// Update replaces the item's metadata and, when a url and storage key are
// supplied, its file. An omitted categoryId keeps the current owner, so
// editing a category image never detaches it. A replaced file is removed
// from storage after the database update.
func (s *GalleryService) Update(ctx context.Context, id int64, in GalleryInput) (*models.GalleryImage, error) {
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}

	existing, err := s.gallery.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	next := *existing
	next.Caption = in.Caption
	next.Category = &in.Category
	if in.CategoryID != nil {
		next.CategoryID = in.CategoryID
	}
	if in.hasMedia() {
		next.URL, next.PublicID = in.URL, in.StorageKey
	}

	updated, err := s.gallery.Update(ctx, &next)
	if err != nil {
		return nil, mapGalleryErr(err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if existing.PublicID != "" && existing.PublicID != updated.PublicID {
		s.cleanup.now(ctx, "gallery update", []string{existing.PublicID})
	}

	slog.Info("gallery item updated", "id", id, "replaced_file", existing.PublicID != updated.PublicID)
	return updated, nil
}

// Delete removes the item and then its storage object.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.gallery.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrNotFound
	}

	if deleted.PublicID != "" {
		s.cleanup.now(ctx, "gallery delete", []string{deleted.PublicID})
	}

	slog.Info("gallery item deleted", "id", id)
	return nil
}

// Wait blocks until background storage cleanups have finished.
func (s *GalleryService) Wait() {
	s.cleanup.Wait()
}

// mapGalleryErr reports an owning category deleted after check as a
// validation failure.
func mapGalleryErr(err error) error {
	if errors.Is(err, store.ErrMissingParent) {
		return validate.Field("categoryId", "does not exist")
	}
	return err
}

// check normalizes and validates the input, including that an owning
// category, if given, exists.
func (s *GalleryService) check(ctx context.Context, in *GalleryInput) error {
	in.Normalize()
	if err := validate.Struct(in); err != nil {
		return err
	}
	if err := in.checkMedia(); err != nil {
		return err
	}
	if in.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return validate.Field("categoryId", "does not exist")
		}
	}
	return nil
}
