// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"hotelcms/internal/models"
)

// Session describes the signed-in admin.
type Session struct {
	Username    string `json:"username"`
	TOTPEnabled bool   `json:"totpEnabled"`
	CSRFToken   string `json:"csrfToken"`
}

// UploadedFile is a stored object returned by Upload.
type UploadedFile struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Categories lists room categories, optionally only the one with slug.
func (c *Client) Categories(ctx context.Context, slug string) ([]models.HotelCategory, error) {
	path := "/api/categories"
	if slug != "" {
		path += "?slug=" + url.QueryEscape(slug)
	}
	var out []models.HotelCategory
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Category returns one category by slug.
func (c *Client) Category(ctx context.Context, slug string) (*models.HotelCategory, error) {
	var out models.HotelCategory
	if err := c.getJSON(ctx, "/api/categories/"+url.PathEscape(slug), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Prices lists price tiers. A zero categoryID lists every category's tiers.
func (c *Client) Prices(ctx context.Context, categoryID int64) ([]models.Price, error) {
	path := "/api/prices"
	if categoryID > 0 {
		path += "?categoryId=" + strconv.FormatInt(categoryID, 10)
	}
	var out []models.Price
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Gallery lists standalone gallery items, optionally for one label.
func (c *Client) Gallery(ctx context.Context, label string) ([]models.GalleryImage, error) {
	path := "/api/gallery"
	if label != "" {
		path += "?category=" + url.QueryEscape(label)
	}
	var out []models.GalleryImage
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login starts an admin session. code is the TOTP code and may be empty
// when two-factor is off.
func (c *Client) Login(ctx context.Context, username, password, code string) (*Session, error) {
	var out Session
	err := c.sendJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
		"code":     code,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the admin session.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// DeleteCategory removes a category with its images and prices.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", id), nil, nil)
}

// DeleteGalleryItem removes a standalone gallery item.
func (c *Client) DeleteGalleryItem(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/gallery/%d", id), nil, nil)
}

// Upload stores a file and returns its URL and storage key.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*UploadedFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("client upload form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("client upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client upload form: %w", err)
	}

	var out UploadedFile
	if err := c.do(ctx, http.MethodPost, "/api/admin/uploads", mw.FormDataContentType(), buf.Bytes(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
