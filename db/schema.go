package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

// Schema creates the players, matches and tournaments tables if they are missing.
// It is idempotent and never alters existing tables.
//
//go:embed schema.sql
var Schema string

// EnsureSchema applies Schema in a single transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}
