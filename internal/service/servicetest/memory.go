// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package servicetest provides in-memory repositories and a recording
// storage fake for tests of the service layer and the code built on it.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hotelcms/internal/models"
	"hotelcms/internal/storage"
	"hotelcms/internal/store"
)

// MemDB is an in-memory stand-in for the category, price and gallery
// tables. It mirrors the store package semantics, including cascade delete
// and truncation of price tiers.
type MemDB struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]*models.HotelCategory
	images     []models.GalleryImage
	prices     []models.Price
	FailWrites error
}

// NewMemDB returns an empty in-memory database.
func NewMemDB() *MemDB {
	return &MemDB{categories: map[int64]*models.HotelCategory{}}
}

// Categories returns a category repository over m.
func (m *MemDB) Categories() CategoryRepo { return CategoryRepo{m} }

// Prices returns a price repository over m.
func (m *MemDB) Prices() PriceRepo { return PriceRepo{m} }

// Gallery returns a gallery repository over m.
func (m *MemDB) Gallery() GalleryRepo { return GalleryRepo{m} }

func (m *MemDB) id() int64 {
	m.nextID++
	return m.nextID
}

// ImageCount returns how many image rows belong to the category.
func (m *MemDB) ImageCount(categoryID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, img := range m.images {
		if img.CategoryID != nil && *img.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// PriceCount returns how many price rows belong to the category.
func (m *MemDB) PriceCount(categoryID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.prices {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// load returns a copy of the category with children. Caller holds mu.
func (m *MemDB) load(id int64) *models.HotelCategory {
	c, ok := m.categories[id]
	if !ok {
		return nil
	}
	out := *c
	out.Images = []models.GalleryImage{}
	for _, img := range m.images {
		if img.CategoryID != nil && *img.CategoryID == id {
			out.Images = append(out.Images, img)
		}
	}
	out.Prices = m.pricesFor(id)
	return &out
}

func (m *MemDB) pricesFor(id int64) []models.Price {
	out := []models.Price{}
	for _, p := range m.prices {
		if p.CategoryID == id {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].HourlyHours < out[j].HourlyHours })
	return out
}

func (m *MemDB) setImages(id int64, title string, images []models.GalleryImage) {
	kept := m.images[:0]
	for _, img := range m.images {
		if img.CategoryID == nil || *img.CategoryID != id {
			kept = append(kept, img)
		}
	}
	m.images = kept
	for i, img := range images {
		caption := models.ImageCaption(title, i+1)
		cid := id
		m.images = append(m.images, models.GalleryImage{
			ID: m.id(), URL: img.URL, PublicID: img.PublicID, Caption: &caption, CategoryID: &cid,
		})
	}
}

func (m *MemDB) setPrices(id int64, tiers []models.Price) {
	kept := m.prices[:0]
	for _, p := range m.prices {
		if p.CategoryID != id {
			kept = append(kept, p)
		}
	}
	m.prices = kept
	for _, p := range models.TruncateTiers(tiers) {
		p.ID, p.CategoryID = m.id(), id
		m.prices = append(m.prices, p)
	}
}

// CategoryRepo implements CategoryRepo on MemDB.
type CategoryRepo struct{ *MemDB }

func (r CategoryRepo) List(_ context.Context, slug string) ([]models.HotelCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.HotelCategory
	for id, c := range r.categories {
		if slug == "" || c.Slug == slug {
			out = append(out, *r.load(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r CategoryRepo) FindByID(_ context.Context, id int64) (*models.HotelCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(id), nil
}

func (r CategoryRepo) FindBySlug(_ context.Context, slug string) (*models.HotelCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.categories {
		if c.Slug == slug {
			return r.load(id), nil
		}
	}
	return nil, nil
}

func (r CategoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.categories[id]
	return ok, nil
}

func (r CategoryRepo) Create(_ context.Context, c *models.HotelCategory) (*models.HotelCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return nil, r.FailWrites
	}
	for _, other := range r.categories {
		if other.Slug == c.Slug {
			return nil, store.ErrDuplicate
		}
	}
	row := *c
	row.ID = r.id()
	row.CreatedAt = time.Now()
	row.Images, row.Prices = nil, nil
	r.categories[row.ID] = &row
	r.setImages(row.ID, row.Title, c.Images)
	r.setPrices(row.ID, c.Prices)
	return r.load(row.ID), nil
}

func (r CategoryRepo) Update(_ context.Context, c *models.HotelCategory, withPrices bool) (*models.HotelCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return nil, r.FailWrites
	}
	if _, ok := r.categories[c.ID]; !ok {
		return nil, store.ErrNotFound
	}
	for id, other := range r.categories {
		if id != c.ID && other.Slug == c.Slug {
			return nil, store.ErrDuplicate
		}
	}
	row := *c
	row.Images, row.Prices = nil, nil
	r.categories[c.ID] = &row
	r.setImages(c.ID, c.Title, c.Images)
	if withPrices {
		r.setPrices(c.ID, c.Prices)
	}
	return r.load(c.ID), nil
}

func (r CategoryRepo) Delete(_ context.Context, id int64) (*models.HotelCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.load(id)
	if c == nil {
		return nil, nil
	}
	delete(r.categories, id)
	r.setImages(id, "", nil)
	r.setPrices(id, nil)
	return c, nil
}

// PriceRepo implements PriceRepo on MemDB.
type PriceRepo struct{ *MemDB }

func (r PriceRepo) List(_ context.Context) ([]models.Price, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Price{}, r.prices...), nil
}

func (r PriceRepo) ListByCategory(_ context.Context, id int64) ([]models.Price, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pricesFor(id), nil
}

func (r PriceRepo) Replace(_ context.Context, id int64, tiers []models.Price) ([]models.Price, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return nil, store.ErrNotFound
	}
	r.setPrices(id, tiers)
	return r.pricesFor(id), nil
}

func (r PriceRepo) DeleteByCategory(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return store.ErrNotFound
	}
	r.setPrices(id, nil)
	return nil
}

// GalleryRepo implements GalleryRepo on MemDB's image list.
type GalleryRepo struct{ *MemDB }

func (r GalleryRepo) Create(_ context.Context, g *models.GalleryImage) (*models.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return nil, r.FailWrites
	}
	if err := r.checkOwner(g.CategoryID); err != nil {
		return nil, err
	}
	row := *g
	row.ID = r.id()
	r.images = append(r.images, row)
	return &row, nil
}

func (r GalleryRepo) FindByID(_ context.Context, id int64) (*models.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.images {
		if img.ID == id {
			return &img, nil
		}
	}
	return nil, nil
}

func (r GalleryRepo) List(_ context.Context, label string) ([]models.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.GalleryImage
	for i := len(r.images) - 1; i >= 0; i-- {
		img := r.images[i]
		if img.IsStandalone() && (label == "" || (img.Category != nil && *img.Category == label)) {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r GalleryRepo) Update(_ context.Context, g *models.GalleryImage) (*models.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOwner(g.CategoryID); err != nil {
		return nil, err
	}
	for i, img := range r.images {
		if img.ID == g.ID {
			r.images[i] = *g
			out := *g
			return &out, nil
		}
	}
	return nil, nil
}

// checkOwner mirrors the gallery_images category foreign key. Caller holds mu.
func (r GalleryRepo) checkOwner(categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if _, ok := r.categories[*categoryID]; !ok {
		return fmt.Errorf("gallery image: %w", store.ErrMissingParent)
	}
	return nil
}

func (r GalleryRepo) Delete(_ context.Context, id int64) (*models.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, img := range r.images {
		if img.ID == id {
			r.images = append(r.images[:i], r.images[i+1:]...)
			return &img, nil
		}
	}
	return nil, nil
}

// Storage records uploads and deletes. DeleteErr makes every delete
// fail; UploadErr makes every upload fail.
type Storage struct {
	mu        sync.Mutex
	uploads   []string
	deletes   [][]string
	DeleteErr error
	UploadErr error
}

func (f *Storage) Upload(_ context.Context, filename string, data []byte) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	key := "media/2026/01/" + filename
	f.uploads = append(f.uploads, key)
	return &storage.Object{URL: "https://cdn.example.com/" + key, Key: key, Size: int64(len(data))}, nil
}

func (f *Storage) DeleteFiles(_ context.Context, keys ...string) (storage.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, append([]string(nil), keys...))
	if f.DeleteErr != nil {
		return storage.DeleteResult{}, f.DeleteErr
	}
	return storage.DeleteResult{Deleted: keys, Failed: map[string]string{}}, nil
}

func (f *Storage) ExtractKey(rawURL string) (string, bool) {
	if key, ok := strings.CutPrefix(rawURL, "https://cdn.example.com/"); ok {
		return key, true
	}
	return storage.KeyFromURL(rawURL)
}

// Uploads returns the keys of every successful upload.
func (f *Storage) Uploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

// Deleted returns the key batches passed to DeleteFiles, in call order.
func (f *Storage) Deleted() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.deletes...)
}

// ErrStorageDown is a convenient DeleteErr or UploadErr value.
var ErrStorageDown = errors.New("storage unavailable")
