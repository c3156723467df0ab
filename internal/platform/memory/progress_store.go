package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// ProgressStore implements store.ProgressStore on a map guarded by a
// read-write mutex. Records are stored and returned as copies so callers
// can never mutate store state through a shared pointer.
type ProgressStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.ProgressRecord
}

// NewProgressStore creates an empty in-memory progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{records: make(map[uuid.UUID]domain.ProgressRecord)}
}

// Ensure ProgressStore implements store.ProgressStore
var _ store.ProgressStore = (*ProgressStore)(nil)

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[vocabID]
	if !ok {
		return nil, store.ErrProgressNotFound
	}

	return record.Clone(), nil
}

// GetForUpdate implements store.ProgressStore.GetForUpdate. Serialization
// is provided by the memory Transactor's lock, so this is plain Get.
func (s *ProgressStore) GetForUpdate(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error) {
	return s.Get(ctx, vocabID)
}

// Upsert implements store.ProgressStore.Upsert.
func (s *ProgressStore) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	if record == nil {
		return store.NewError("progress", "upsert", store.ErrConstraintViolation)
	}

	if err := record.Validate(); err != nil {
		return store.NewError("progress", "upsert",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.VocabID] = *record.Clone()
	return nil
}

// ListDue implements store.ProgressStore.ListDue.
func (s *ProgressStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*domain.ProgressRecord
	for _, record := range s.records {
		if record.Due(now) {
			due = append(due, record.Clone())
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(due[j].DueDate) {
			return due[i].DueDate.Before(due[j].DueDate)
		}
		// Deterministic tie-break on vocab ID.
		return due[i].VocabID.String() < due[j].VocabID.String()
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	return due, nil
}

// ListAll implements store.ProgressStore.ListAll.
func (s *ProgressStore) ListAll(ctx context.Context) ([]*domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.ProgressRecord, 0, len(s.records))
	for _, record := range s.records {
		all = append(all, record.Clone())
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].VocabID.String() < all[j].VocabID.String()
	})

	return all, nil
}

// WithTx implements store.ProgressStore.WithTx. The memory backend has no
// real transactions; the store itself is returned.
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return s
}
