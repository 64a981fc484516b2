// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hotelcms/internal/models"
)

// CategoryStore handles CRUD operations on hotel_categories together with
// the category images and price tiers the category owns.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, slug, title, description, features, amenities,
	bed_type, max_occupancy, room_size, room_count, video_url, created_at, updated_at`

func scanCategory(scanner interface{ Scan(...any) error }) (*models.HotelCategory, error) {
	var (
		c                   models.HotelCategory
		features, amenities []byte
	)
	err := scanner.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &features, &amenities,
		&c.BedType, &c.MaxOccupancy, &c.RoomSize, &c.RoomCount, &c.VideoURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &c.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if err := json.Unmarshal(amenities, &c.Amenities); err != nil {
		return nil, fmt.Errorf("decode amenities: %w", err)
	}
	return &c, nil
}

// encodeLists marshals the JSONB columns, substituting empty values for nil.
func encodeLists(c *models.HotelCategory) (features, amenities string, err error) {
	f := c.Features
	if f == nil {
		f = map[string]bool{}
	}
	a := c.Amenities
	if a == nil {
		a = []string{}
	}
	fb, err := json.Marshal(f)
	if err != nil {
		return "", "", fmt.Errorf("encode features: %w", err)
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return "", "", fmt.Errorf("encode amenities: %w", err)
	}
	return string(fb), string(ab), nil
}

// List returns all categories ordered newest first, with images and prices
// preloaded. A non-empty slug restricts the result to that slug.
func (s *CategoryStore) List(ctx context.Context, slug string) ([]models.HotelCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM hotel_categories`
	var args []any
	if slug != "" {
		query += ` WHERE slug = $1`
		args = append(args, slug)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []models.HotelCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadChildren(ctx, s.db, cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// FindByID retrieves a category with its images and prices. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.HotelCategory, error) {
	return findCategory(ctx, s.db, "id", id)
}

// FindBySlug retrieves a category with its images and prices. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.HotelCategory, error) {
	return findCategory(ctx, s.db, "slug", slug)
}

// Exists reports whether a category with the given ID exists.
func (s *CategoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM hotel_categories WHERE id = $1)`, id,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return ok, nil
}

// findCategory loads one category by the given column. The column name is
// always a constant supplied by this package.
func findCategory(ctx context.Context, q querier, column string, arg any) (*models.HotelCategory, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM hotel_categories WHERE `+column+` = $1`, arg)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by %s: %w", column, err)
	}

	cats := []models.HotelCategory{*c}
	if err := loadChildren(ctx, q, cats); err != nil {
		return nil, err
	}
	return &cats[0], nil
}

// Create inserts the category row, one image row per entry in c.Images and
// the first MaxPriceTiers entries of c.Prices in a single transaction.
// Image captions are derived from the title. Returns ErrDuplicate when the
// slug is taken.
func (s *CategoryStore) Create(ctx context.Context, c *models.HotelCategory) (*models.HotelCategory, error) {
	features, amenities, err := encodeLists(c)
	if err != nil {
		return nil, err
	}

	var id int64
	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO hotel_categories (slug, title, description, features, amenities,
				bed_type, max_occupancy, room_size, room_count, video_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, c.Slug, c.Title, c.Description, features, amenities,
			c.BedType, c.MaxOccupancy, c.RoomSize, c.RoomCount, c.VideoURL,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("create category: %w", mapUnique(err))
		}
		if err := insertCategoryImages(ctx, tx, id, c.Title, c.Images); err != nil {
			return err
		}
		return replacePrices(ctx, tx, id, c.Prices)
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Update overwrites the category row identified by c.ID, including
// video_url, and replaces its image rows with c.Images. When withPrices is
// true the price set is replaced with c.Prices as well. Returns ErrNotFound
// when the row does not exist and ErrDuplicate when the new slug is taken.
func (s *CategoryStore) Update(ctx context.Context, c *models.HotelCategory, withPrices bool) (*models.HotelCategory, error) {
	features, amenities, err := encodeLists(c)
	if err != nil {
		return nil, err
	}

	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE hotel_categories
			SET slug = $1, title = $2, description = $3, features = $4, amenities = $5,
				bed_type = $6, max_occupancy = $7, room_size = $8, room_count = $9,
				video_url = $10, updated_at = NOW()
			WHERE id = $11
		`, c.Slug, c.Title, c.Description, features, amenities,
			c.BedType, c.MaxOccupancy, c.RoomSize, c.RoomCount, c.VideoURL, c.ID)
		if err != nil {
			return fmt.Errorf("update category: %w", mapUnique(err))
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM gallery_images WHERE category_id = $1`, c.ID); err != nil {
			return fmt.Errorf("clear category images: %w", err)
		}
		if err := insertCategoryImages(ctx, tx, c.ID, c.Title, c.Images); err != nil {
			return err
		}

		if withPrices {
			return replacePrices(ctx, tx, c.ID, c.Prices)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, c.ID)
}

// Delete removes a category and, via cascade, its images and prices. The
// row as it was before deletion is returned so callers can clean up storage.
// Returns nil if not found.
func (s *CategoryStore) Delete(ctx context.Context, id int64) (*models.HotelCategory, error) {
	var deleted *models.HotelCategory
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		c, err := findCategory(ctx, tx, "id", id)
		if err != nil || c == nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM hotel_categories WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// insertCategoryImages inserts one image row per ref, captioned
// "<title> - Image <n>".
func insertCategoryImages(ctx context.Context, tx *sql.Tx, categoryID int64, title string, images []models.GalleryImage) error {
	for i, img := range images {
		caption := models.ImageCaption(title, i+1)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO gallery_images (url, public_id, caption, category_id)
			VALUES ($1, $2, $3, $4)
		`, img.URL, img.PublicID, caption, categoryID)
		if err != nil {
			return fmt.Errorf("insert category image: %w", err)
		}
	}
	return nil
}

// loadChildren fills Images and Prices for every category in cats.
func loadChildren(ctx context.Context, q querier, cats []models.HotelCategory) error {
	if len(cats) == 0 {
		return nil
	}

	ids := make([]int64, len(cats))
	index := make(map[int64]int, len(cats))
	for i := range cats {
		ids[i] = cats[i].ID
		index[cats[i].ID] = i
		cats[i].Images = []models.GalleryImage{}
		cats[i].Prices = []models.Price{}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+galleryColumns+` FROM gallery_images
		WHERE category_id = ANY($1) ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("load category images: %w", err)
	}
	for rows.Next() {
		img, err := scanGalleryImage(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan category image: %w", err)
		}
		i := index[*img.CategoryID]
		cats[i].Images = append(cats[i].Images, *img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	prices, err := listPrices(ctx, q, `WHERE category_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	for _, p := range prices {
		i := index[p.CategoryID]
		cats[i].Prices = append(cats[i].Prices, p)
	}
	return nil
}
