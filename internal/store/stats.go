package store

import (
	"context"
	"database/sql"

	"github.com/topiklearn/srs-api/internal/domain"
)

// UserStatsStore persists the single-tenant statistics record. The row is a
// singleton; implementations seed it with zero values on first access so
// Get never reports absence.
type UserStatsStore interface {
	// Get retrieves the stats snapshot, creating the zero-progress row if
	// it does not exist yet.
	Get(ctx context.Context) (*domain.UserStats, error)

	// GetForUpdate retrieves the stats snapshot with a row-level lock. It
	// must be called inside a transaction; the lock is the serialization
	// point for all stats writers.
	GetForUpdate(ctx context.Context) (*domain.UserStats, error)

	// Update overwrites the singleton snapshot.
	Update(ctx context.Context, stats *domain.UserStats) error

	// WithTx returns a UserStatsStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStatsStore
}

// UserSettingsStore persists the single-tenant settings record, seeded with
// defaults on first access.
type UserSettingsStore interface {
	Get(ctx context.Context) (*domain.UserSettings, error)
	Update(ctx context.Context, settings *domain.UserSettings) error
}
