package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin installs the single admin account on a fresh database. Once
// any admin row exists it does nothing, so a password changed after the
// first start is kept across restarts.
func SeedAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("seed admin: username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}

	// The insert is conditional on an empty table and tolerates a
	// concurrent instance winning the race.
	res, err := db.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM admins)
		ON CONFLICT DO NOTHING
	`, username, string(hash))
	if err != nil {
		return fmt.Errorf("seed admin insert: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		slog.Debug("admin account present, seed skipped")
		return nil
	}
	slog.Info("admin account seeded", "username", username)
	return nil
}
