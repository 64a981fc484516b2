package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"hotelcms/internal/models"
)

func TestPublicCategories(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/categories", nil)
	if resp.Status != http.StatusOK || string(resp.Data) != "[]" {
		t.Fatalf("empty list: got %d %s, want 200 []", resp.Status, resp.Data)
	}

	c := createCategory(t, f)

	tests := []struct {
		path string
		want int
	}{
		{"/categories", 1},
		{"/categories?slug=deluxe-room", 1},
		{"/categories?slug=missing", 0},
	}
	for _, tt := range tests {
		resp := f.do(t, http.MethodGet, tt.path, nil)
		var list []models.HotelCategory
		resp.into(t, &list)
		if len(list) != tt.want {
			t.Errorf("GET %s: got %d categories, want %d", tt.path, len(list), tt.want)
		}
	}

	resp = f.do(t, http.MethodGet, "/categories/deluxe-room", nil)
	var got models.HotelCategory
	resp.into(t, &got)
	if got.ID != c.ID || len(got.Prices) != 4 || len(got.Images) != 1 {
		t.Errorf("by slug: got %+v", got)
	}
}

func TestPublicPrices(t *testing.T) {
	f := newFixture(t)
	c := createCategory(t, f)

	resp := f.do(t, http.MethodGet, fmt.Sprintf("/prices?categoryId=%d", c.ID), nil)
	var tiers []models.Price
	resp.into(t, &tiers)
	if len(tiers) != 4 {
		t.Fatalf("tiers: got %d, want 4", len(tiers))
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i-1].HourlyHours > tiers[i].HourlyHours {
			t.Errorf("tiers not ascending: %+v", tiers)
		}
	}

	resp = f.do(t, http.MethodGet, "/prices?categoryId=abc", nil)
	if resp.Status != http.StatusBadRequest {
		t.Errorf("bad categoryId: got %d, want 400", resp.Status)
	}
}

func TestPublicGalleryExcludesCategoryImages(t *testing.T) {
	f := newFixture(t)
	createCategory(t, f)

	resp := f.do(t, http.MethodGet, "/gallery", nil)
	var list []models.GalleryImage
	resp.into(t, &list)
	if len(list) != 0 {
		t.Errorf("gallery: got %d items, want 0", len(list))
	}
}
