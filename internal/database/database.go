// Package database handles PostgreSQL connection management and migration
// execution using goose. It provides a Connect function that returns a
// ready-to-use *sql.DB pool and a Migrate function for schema management.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Options tunes the connection pool and the startup ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// PingAttempts is how often Connect pings before giving up. The
	// database container often accepts connections a few seconds after
	// the API container starts.
	PingAttempts int
	PingDelay    time.Duration
}

// DefaultOptions returns the pool settings used by the server.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		PingAttempts:    5,
		PingDelay:       2 * time.Second,
	}
}

// Connect opens a PostgreSQL connection pool using the provided DSN and
// pings it until it answers or the attempts run out.
func Connect(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	attempts := max(opts.PingAttempts, 1)
	for i := 1; ; i++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		if i == attempts || ctx.Err() != nil {
			db.Close()
			return nil, fmt.Errorf("database ping after %d attempt(s): %w", i, err)
		}
		slog.Warn("database not ready, retrying", "attempt", i, "error", err)

		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("database ping: %w", ctx.Err())
		case <-time.After(opts.PingDelay):
		}
	}

	slog.Info("database connected", "max_open_conns", opts.MaxOpenConns)
	return db, nil
}

// Migrate applies all pending migrations from the embedded SQL files.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration.String())
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}

	slog.Info("database migrations applied", "applied", len(results), "version", version)
	return nil
}
