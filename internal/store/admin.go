// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"hotelcms/internal/models"
)

// AdminStore handles the single admin account.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, username, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanAdmin(scanner interface{ Scan(...any) error }) (*models.Admin, error) {
	var a models.Admin
	err := scanner.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.TOTPSecret, &a.TOTPEnabled,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByUsername retrieves the admin with the given username. Returns nil if not found.
func (s *AdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = $1`, username)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return a, nil
}

// FindByID retrieves the admin by ID. Returns nil if not found.
func (s *AdminStore) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return a, nil
}

// CheckPassword verifies a plaintext password against the admin's stored hash.
func (s *AdminStore) CheckPassword(admin *models.Admin, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil
}

// SetTOTPSecret saves a pending TOTP secret. 2FA stays disabled until
// EnableTOTP is called after a successful code check.
func (s *AdminStore) SetTOTPSecret(ctx context.Context, id int64, secret string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE admins SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return requireAffected(res)
}

// EnableTOTP marks 2FA as active for the admin.
func (s *AdminStore) EnableTOTP(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE admins SET totp_enabled = TRUE, updated_at = NOW()
		WHERE id = $1 AND totp_secret IS NOT NULL
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return requireAffected(res)
}

// requireAffected returns ErrNotFound when an UPDATE or DELETE hit no rows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
