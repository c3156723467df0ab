package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/topiklearn/srs-api/internal/platform/logger"
)

// TxFn is a function executed within a transaction. The transaction is
// committed if the function returns nil and rolled back otherwise.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// Transactor runs functions with transactional (all-or-nothing) semantics.
// The SQL implementation wraps *sql.DB; the in-memory implementation
// serializes callers with a lock and passes a nil transaction, which the
// memory stores' WithTx ignores.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// sqlTransactor implements Transactor over a *sql.DB.
type sqlTransactor struct {
	db *sql.DB
}

// NewTransactor returns a Transactor over the given database handle.
func NewTransactor(db *sql.DB) Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	return &sqlTransactor{db: db}
}

// RunInTransaction implements Transactor.
func (t *sqlTransactor) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}

// RunInTransaction executes fn within a database transaction, rolling back
// on error or panic and committing otherwise.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
