// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all hotelcms
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
//
// Finders return (nil, nil) when no row matches. Writes that target a row
// that does not exist return ErrNotFound.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by writes whose target row does not exist.
var ErrNotFound = errors.New("store: row not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("store: duplicate key")

// ErrMissingParent is returned when a foreign key rejects a write because
// the referenced row is gone.
var ErrMissingParent = errors.New("store: referenced row missing")

// PostgreSQL SQLSTATE codes mapped to store errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction, committing when fn returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// mapUnique converts a unique_violation into ErrDuplicate.
func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// mapForeignKey converts a foreign_key_violation into ErrMissingParent.
func mapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrMissingParent, pgErr.ConstraintName)
	}
	return err
}
