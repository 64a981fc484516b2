// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"hotelcms/internal/models"
)

// GalleryStore handles CRUD operations on gallery_images rows. List only
// returns standalone items; category images are listed through their
// category but can be edited and removed here by id.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore creates a new GalleryStore with the given database connection.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

const galleryColumns = `id, url, public_id, caption, category, category_id, created_at, updated_at`

func scanGalleryImage(scanner interface{ Scan(...any) error }) (*models.GalleryImage, error) {
	var g models.GalleryImage
	err := scanner.Scan(
		&g.ID, &g.URL, &g.PublicID, &g.Caption, &g.Category, &g.CategoryID,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a gallery item and returns it with generated fields populated.
func (s *GalleryStore) Create(ctx context.Context, g *models.GalleryImage) (*models.GalleryImage, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO gallery_images (url, public_id, caption, category, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+galleryColumns,
		g.URL, g.PublicID, g.Caption, g.Category, g.CategoryID,
	)
	created, err := scanGalleryImage(row)
	if err != nil {
		return nil, fmt.Errorf("create gallery image: %w", mapForeignKey(err))
	}
	return created, nil
}

// FindByID retrieves a gallery item by ID. Returns nil if not found.
func (s *GalleryStore) FindByID(ctx context.Context, id int64) (*models.GalleryImage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+galleryColumns+` FROM gallery_images WHERE id = $1`, id)
	g, err := scanGalleryImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gallery image: %w", err)
	}
	return g, nil
}

// List returns standalone gallery items ordered newest first. A non-empty
// label restricts the result to items carrying that label.
func (s *GalleryStore) List(ctx context.Context, label string) ([]models.GalleryImage, error) {
	query := `SELECT ` + galleryColumns + ` FROM gallery_images WHERE category_id IS NULL`
	var args []any
	if label != "" {
		query += ` AND category = $1`
		args = append(args, label)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	images := []models.GalleryImage{}
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, *g)
	}
	return images, rows.Err()
}

// Update overwrites url, public_id, caption, category and category_id of an
// existing item. Returns nil if not found.
func (s *GalleryStore) Update(ctx context.Context, g *models.GalleryImage) (*models.GalleryImage, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE gallery_images
		SET url = $1, public_id = $2, caption = $3, category = $4, category_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+galleryColumns,
		g.URL, g.PublicID, g.Caption, g.Category, g.CategoryID, g.ID,
	)
	updated, err := scanGalleryImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update gallery image: %w", mapForeignKey(err))
	}
	return updated, nil
}

// Delete removes a gallery item and returns the deleted row so the caller
// can remove the storage object. Returns nil if not found.
func (s *GalleryStore) Delete(ctx context.Context, id int64) (*models.GalleryImage, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM gallery_images WHERE id = $1 RETURNING `+galleryColumns, id)
	g, err := scanGalleryImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete gallery image: %w", err)
	}
	return g, nil
}
