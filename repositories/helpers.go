package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrConstraintViolation is returned when the store rejects a row (SQLSTATE class 23).
var ErrConstraintViolation = errors.New("constraint violation")

// classifyError maps driver errors from either lib/pq or pgx onto repository sentinels.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var code, detail string
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		code, detail = string(pqErr.Code), pqErr.Message
	case errors.As(err, &pgErr):
		code, detail = pgErr.Code, pgErr.Message
	default:
		return err
	}

	if strings.HasPrefix(code, "23") {
		return fmt.Errorf("%w: %s (SQLSTATE %s)", ErrConstraintViolation, detail, code)
	}
	return err
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	return fn(tx)
}
