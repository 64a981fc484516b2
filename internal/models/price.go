// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// MaxPriceTiers caps how many price rows a category keeps. Longer input
// lists are truncated, keeping submission order.
const MaxPriceTiers = 4

// Price is one pricing tier of a HotelCategory. Rates are integer cents.
type Price struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"categoryId"`
	HourlyHours int       `json:"hourlyHours"`
	RateCents   int64     `json:"rateCents"`
	Label       *string   `json:"label,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TruncateTiers returns at most MaxPriceTiers elements of tiers.
func TruncateTiers[T any](tiers []T) []T {
	if len(tiers) > MaxPriceTiers {
		return tiers[:MaxPriceTiers]
	}
	return tiers
}
