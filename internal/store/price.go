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

// PriceStore handles the price tiers of hotel categories. A category's tier
// set is always replaced as a whole.
type PriceStore struct {
	db *sql.DB
}

// NewPriceStore creates a new PriceStore with the given database connection.
func NewPriceStore(db *sql.DB) *PriceStore {
	return &PriceStore{db: db}
}

const priceColumns = `id, category_id, hourly_hours, rate_cents, label, created_at`

// List returns every price tier ordered by category, then hourly_hours ascending.
func (s *PriceStore) List(ctx context.Context) ([]models.Price, error) {
	return listPrices(ctx, s.db, "")
}

// ListByCategory returns a category's tiers ordered by hourly_hours ascending.
func (s *PriceStore) ListByCategory(ctx context.Context, categoryID int64) ([]models.Price, error) {
	return listPrices(ctx, s.db, `WHERE category_id = $1`, categoryID)
}

// Replace deletes every tier of the category and inserts the first
// MaxPriceTiers entries of tiers in one transaction. Returns ErrNotFound
// when the category does not exist.
func (s *PriceStore) Replace(ctx context.Context, categoryID int64, tiers []models.Price) ([]models.Price, error) {
	var out []models.Price
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		if err := replacePrices(ctx, tx, categoryID, tiers); err != nil {
			return err
		}
		var err error
		out, err = listPrices(ctx, tx, `WHERE category_id = $1`, categoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByCategory removes every tier of the category. Returns ErrNotFound
// when the category does not exist.
func (s *PriceStore) DeleteByCategory(ctx context.Context, categoryID int64) error {
	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM prices WHERE category_id = $1`, categoryID); err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
		return nil
	})
}

// lockCategory takes a row lock on the category so concurrent replacements
// of the same tier set serialize.
func lockCategory(ctx context.Context, tx *sql.Tx, categoryID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM hotel_categories WHERE id = $1 FOR UPDATE`, categoryID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock category: %w", err)
	}
	return nil
}

// replacePrices is the delete-all-then-insert step shared by category
// create/update and Replace. It must run inside a transaction.
func replacePrices(ctx context.Context, tx *sql.Tx, categoryID int64, tiers []models.Price) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM prices WHERE category_id = $1`, categoryID); err != nil {
		return fmt.Errorf("clear prices: %w", err)
	}
	for _, p := range models.TruncateTiers(tiers) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prices (category_id, hourly_hours, rate_cents, label)
			VALUES ($1, $2, $3, $4)
		`, categoryID, p.HourlyHours, p.RateCents, p.Label)
		if err != nil {
			return fmt.Errorf("insert price: %w", err)
		}
	}
	return nil
}

func listPrices(ctx context.Context, q querier, where string, args ...any) ([]models.Price, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+priceColumns+` FROM prices `+where+`
		ORDER BY category_id, hourly_hours ASC, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	prices := []models.Price{}
	for rows.Next() {
		var p models.Price
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.HourlyHours, &p.RateCents, &p.Label, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
