// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"

	"hotelcms/internal/models"
)

// PriceService reads and replaces category price tiers.
type PriceService struct {
	prices     PriceRepo
	categories CategoryChecker
}

// NewPriceService creates a PriceService.
func NewPriceService(prices PriceRepo, categories CategoryChecker) *PriceService {
	return &PriceService{prices: prices, categories: categories}
}

// List returns every tier, or the tiers of one category when categoryID is
// non-nil, ordered by hourlyHours ascending within a category.
func (s *PriceService) List(ctx context.Context, categoryID *int64) ([]models.Price, error) {
	var (
		tiers []models.Price
		err   error
	)
	if categoryID == nil {
		tiers, err = s.prices.List(ctx)
	} else {
		tiers, err = s.prices.ListByCategory(ctx, *categoryID)
	}
	if err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = []models.Price{}
	}
	return tiers, nil
}

// Replace swaps the category's tier set for the first four submitted tiers.
func (s *PriceService) Replace(ctx context.Context, categoryID int64, in PriceSetInput) ([]models.Price, error) {
	in.Prices = normalizePrices(in.Prices)
	if in.Prices == nil {
		in.Prices = []PriceInput{}
	}
	return replaceTiers(ctx, s.prices, categoryID, in.Prices)
}

// Clear removes every tier of the category.
func (s *PriceService) Clear(ctx context.Context, categoryID int64) error {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return mapStoreErr(s.prices.DeleteByCategory(ctx, categoryID))
}
