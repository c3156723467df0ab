package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
)

// ProgressStore persists per-item spaced-repetition state, keyed uniquely
// by vocabulary ID.
type ProgressStore interface {
	// Get retrieves the progress record for a vocabulary item.
	// Returns ErrProgressNotFound if the item has never been reviewed;
	// absence is a valid state, not a failure.
	Get(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error)

	// GetForUpdate retrieves a progress record with a row-level lock.
	// It must be called inside a transaction; the lock serializes concurrent
	// reviews of the same item so the second review observes the first's
	// result. Returns ErrProgressNotFound if no record exists yet.
	GetForUpdate(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error)

	// Upsert writes the record, replacing any previous record for the same
	// vocabulary ID (last write wins). The record is validated first;
	// Upsert returns ErrConstraintViolation wrapped with the validation
	// failure rather than persisting an invalid record.
	Upsert(ctx context.Context, record *domain.ProgressRecord) error

	// ListDue returns records with DueDate <= now, ordered oldest-due first
	// and then by vocabulary ID for a deterministic tie-break. A limit of 0
	// means unbounded.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.ProgressRecord, error)

	// ListAll returns every progress record. Used by the stats aggregator to
	// recompute the running accuracy across all items.
	ListAll(ctx context.Context) ([]*domain.ProgressRecord, error)

	// WithTx returns a ProgressStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
