package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// VocabularyStore implements store.VocabularyStore on a map guarded by a
// read-write mutex.
type VocabularyStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.VocabularyItem
}

// NewVocabularyStore creates an empty in-memory catalog store.
func NewVocabularyStore() *VocabularyStore {
	return &VocabularyStore{items: make(map[uuid.UUID]domain.VocabularyItem)}
}

// Ensure VocabularyStore implements store.VocabularyStore
var _ store.VocabularyStore = (*VocabularyStore)(nil)

func cloneItem(item domain.VocabularyItem) *domain.VocabularyItem {
	c := item
	if item.Tags != nil {
		c.Tags = append([]string(nil), item.Tags...)
	}
	return &c
}

// CreateMultiple implements store.VocabularyStore.CreateMultiple.
func (s *VocabularyStore) CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return store.NewError("vocabulary", "create_multiple",
				fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, ok := s.items[item.ID]; ok {
			continue // skip duplicates, matching the SQL ON CONFLICT DO NOTHING
		}
		s.items[item.ID] = *cloneItem(*item)
	}

	return nil
}

// GetByID implements store.VocabularyStore.GetByID.
func (s *VocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrVocabularyNotFound
	}

	return cloneItem(item), nil
}

// Exists implements store.VocabularyStore.Exists.
func (s *VocabularyStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[id]
	return ok, nil
}

// ExistsForUpdate implements store.VocabularyStore.ExistsForUpdate.
// Serialization is provided by the memory Transactor's lock.
func (s *VocabularyStore) ExistsForUpdate(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.Exists(ctx, id)
}

// List implements store.VocabularyStore.List.
func (s *VocabularyStore) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(domain.VocabularyItem) bool { return true }), nil
}

// Search implements store.VocabularyStore.Search.
func (s *VocabularyStore) Search(ctx context.Context, query string) ([]*domain.VocabularyItem, error) {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(item domain.VocabularyItem) bool {
		return strings.Contains(strings.ToLower(item.Headword), q) ||
			strings.Contains(strings.ToLower(item.Gloss), q)
	}), nil
}

// FindByTag implements store.VocabularyStore.FindByTag.
func (s *VocabularyStore) FindByTag(ctx context.Context, tag string) ([]*domain.VocabularyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(item domain.VocabularyItem) bool {
		return item.HasTag(tag)
	}), nil
}

// collect returns matching items newest first. Callers must hold the lock.
func (s *VocabularyStore) collect(match func(domain.VocabularyItem) bool) []*domain.VocabularyItem {
	var out []*domain.VocabularyItem
	for _, item := range s.items {
		if match(item) {
			out = append(out, cloneItem(item))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	return out
}

// Update implements store.VocabularyStore.Update.
func (s *VocabularyStore) Update(ctx context.Context, item *domain.VocabularyItem) error {
	if err := item.Validate(); err != nil {
		return store.NewError("vocabulary", "update",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return store.ErrVocabularyNotFound
	}

	s.items[item.ID] = *cloneItem(*item)
	return nil
}

// Delete implements store.VocabularyStore.Delete.
func (s *VocabularyStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrVocabularyNotFound
	}

	delete(s.items, id)
	return nil
}

// WithTx implements store.VocabularyStore.WithTx.
func (s *VocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return s
}
