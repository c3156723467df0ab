package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
)

// VocabularyStore persists the catalog of vocabulary items. The catalog is
// the authority the scheduler consults for unknown-item checks.
type VocabularyStore interface {
	// CreateMultiple saves a batch of items, skipping any whose ID already
	// exists. The operation is atomic: either the whole batch is applied or
	// none of it.
	CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error

	// GetByID retrieves an item by ID.
	// Returns ErrVocabularyNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)

	// Exists reports whether an item with the given ID is in the catalog.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsForUpdate is Exists with the catalog row locked until the
	// surrounding transaction ends. Review submission takes this lock so
	// that concurrent reviews of the same item serialize even before the
	// item has a progress row of its own to lock.
	ExistsForUpdate(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns all items, newest first.
	List(ctx context.Context) ([]*domain.VocabularyItem, error)

	// Search returns items whose headword or gloss contains the query,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]*domain.VocabularyItem, error)

	// FindByTag returns items carrying the given tag.
	FindByTag(ctx context.Context, tag string) ([]*domain.VocabularyItem, error)

	// Update fully replaces an item's data.
	// Returns ErrVocabularyNotFound if it does not exist.
	Update(ctx context.Context, item *domain.VocabularyItem) error

	// Delete removes an item and, through the schema's cascade, its
	// progress record. Returns ErrVocabularyNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a VocabularyStore bound to the given transaction.
	WithTx(tx *sql.Tx) VocabularyStore
}
