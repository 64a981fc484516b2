//go:build integration

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"hotelcms/internal/database"
)

func TestAdminLookupAndPassword(t *testing.T) {
	db := testDB(t)
	if err := database.SeedAdmin(context.Background(), db, "admin", "s3cret"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	s := NewAdminStore(db)
	ctx := context.Background()

	a, err := s.FindByUsername(ctx, "admin")
	if err != nil || a == nil {
		t.Fatalf("FindByUsername: %v, %v", a, err)
	}
	if !s.CheckPassword(a, "s3cret") {
		t.Error("expected correct password to match")
	}
	if s.CheckPassword(a, "wrong") {
		t.Error("expected wrong password to fail")
	}

	missing, err := s.FindByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("FindByUsername missing: %v, %v", missing, err)
	}
}

func TestAdminTOTPEnrollment(t *testing.T) {
	db := testDB(t)
	if err := database.SeedAdmin(context.Background(), db, "admin", "s3cret"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	s := NewAdminStore(db)
	ctx := context.Background()
	a, _ := s.FindByUsername(ctx, "admin")

	if err := s.EnableTOTP(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("EnableTOTP without secret: got %v, want ErrNotFound", err)
	}
	if err := s.SetTOTPSecret(ctx, a.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(ctx, a.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	a, _ = s.FindByID(ctx, a.ID)
	if !a.RequiresCode() {
		t.Error("expected admin to require a code after enrollment")
	}
}
