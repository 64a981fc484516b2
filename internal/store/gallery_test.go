//go:build integration

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"hotelcms/internal/models"
)

func TestGalleryCRUD(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.GalleryImage{
		URL:      "https://cdn.example.com/f/pool",
		PublicID: "pool",
		Caption:  strPtr("The pool"),
		Category: strPtr(models.GalleryAmenities),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || !created.IsStandalone() {
		t.Fatalf("unexpected created row: %+v", created)
	}

	created.URL = "https://cdn.example.com/f/pool2"
	created.PublicID = "pool2"
	updated, err := s.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PublicID != "pool2" {
		t.Errorf("PublicID after update: %q", updated.PublicID)
	}

	deleted, err := s.Delete(ctx, created.ID)
	if err != nil || deleted == nil {
		t.Fatalf("Delete: %v, %v", deleted, err)
	}
	if deleted.PublicID != "pool2" {
		t.Errorf("deleted row key: %q", deleted.PublicID)
	}

	gone, err := s.FindByID(ctx, created.ID)
	if err != nil || gone != nil {
		t.Errorf("FindByID after delete: %v, %v", gone, err)
	}
}

func TestGalleryUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)

	g, err := s.Update(context.Background(), &models.GalleryImage{ID: 77, URL: "u", PublicID: "k"})
	if err != nil || g != nil {
		t.Errorf("Update missing: got %v, %v; want nil, nil", g, err)
	}
}

func TestGalleryCreateMissingCategory(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)
	missing := int64(987654)

	_, err := s.Create(context.Background(), &models.GalleryImage{
		URL: "u", PublicID: "k", Category: strPtr(models.GalleryRooms), CategoryID: &missing,
	})
	if !errors.Is(err, ErrMissingParent) {
		t.Errorf("Create with missing category: got %v, want ErrMissingParent", err)
	}
}

func TestGalleryListFiltersLabelAndSkipsCategoryImages(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)
	cats := NewCategoryStore(db)
	ctx := context.Background()

	c := newCategory("deluxe", "Deluxe")
	c.Images = []models.GalleryImage{{URL: "u", PublicID: "cat-img"}}
	if _, err := cats.Create(ctx, c); err != nil {
		t.Fatalf("Create category: %v", err)
	}

	for _, label := range []string{models.GalleryExterior, models.GalleryDining, models.GalleryExterior} {
		if _, err := s.Create(ctx, &models.GalleryImage{URL: "u", PublicID: "k", Category: strPtr(label)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List all: got %d, want 3 standalone items", len(all))
	}
	if len(all) == 3 && all[0].ID < all[2].ID {
		t.Error("expected newest first")
	}

	ext, err := s.List(ctx, models.GalleryExterior)
	if err != nil {
		t.Fatalf("List Exterior: %v", err)
	}
	if len(ext) != 2 {
		t.Errorf("List Exterior: got %d, want 2", len(ext))
	}
}
