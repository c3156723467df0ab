// Package catalog manages the vocabulary reference data: creation on
// import or manual add, lookup, search, and full-replace updates.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/store"
)

// ErrItemNotFound indicates the requested vocabulary item does not exist.
var ErrItemNotFound = errors.New("vocabulary item not found")

// Service provides vocabulary catalog operations.
type Service interface {
	// Add creates one vocabulary item from its parts.
	Add(ctx context.Context, headword, gloss string, tags []string) (*domain.VocabularyItem, error)

	// AddMultiple creates a batch of items, skipping any whose ID already
	// exists. Used by bulk import.
	AddMultiple(ctx context.Context, items []*domain.VocabularyItem) error

	// Get returns one item by ID, or ErrItemNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)

	// List returns all items, newest first.
	List(ctx context.Context) ([]*domain.VocabularyItem, error)

	// Search returns items whose headword or gloss contains the query,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]*domain.VocabularyItem, error)

	// FindByTag returns items carrying the given tag.
	FindByTag(ctx context.Context, tag string) ([]*domain.VocabularyItem, error)

	// Update replaces an existing item wholesale.
	Update(ctx context.Context, item *domain.VocabularyItem) error

	// Delete removes an item; its progress record goes with it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	vocabStore store.VocabularyStore
	logger     *slog.Logger
}

// NewService creates a catalog Service.
func NewService(vocabStore store.VocabularyStore, log *slog.Logger) Service {
	if vocabStore == nil {
		panic("vocabStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		vocabStore: vocabStore,
		logger:     log.With(slog.String("component", "catalog_service")),
	}
}

// Add implements Service.Add.
func (s *serviceImpl) Add(
	ctx context.Context,
	headword, gloss string,
	tags []string,
) (*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewVocabularyItem(headword, gloss, tags)
	if err != nil {
		return nil, err
	}

	if err := s.vocabStore.CreateMultiple(ctx, []*domain.VocabularyItem{item}); err != nil {
		log.Error("failed to add vocabulary item",
			slog.String("error", err.Error()),
			slog.String("headword", headword))
		return nil, fmt.Errorf("failed to add vocabulary item: %w", err)
	}

	log.Debug("added vocabulary item",
		slog.String("vocab_id", item.ID.String()),
		slog.String("headword", item.Headword))

	return item, nil
}

// AddMultiple implements Service.AddMultiple.
func (s *serviceImpl) AddMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	if err := s.vocabStore.CreateMultiple(ctx, items); err != nil {
		return fmt.Errorf("failed to add vocabulary items: %w", err)
	}

	return nil
}

// Get implements Service.Get.
func (s *serviceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	item, err := s.vocabStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrVocabularyNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get vocabulary item: %w", err)
	}

	return item, nil
}

// List implements Service.List.
func (s *serviceImpl) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	return s.vocabStore.List(ctx)
}

// Search implements Service.Search.
func (s *serviceImpl) Search(ctx context.Context, query string) ([]*domain.VocabularyItem, error) {
	if query == "" {
		return s.vocabStore.List(ctx)
	}
	return s.vocabStore.Search(ctx, query)
}

// FindByTag implements Service.FindByTag.
func (s *serviceImpl) FindByTag(ctx context.Context, tag string) ([]*domain.VocabularyItem, error) {
	return s.vocabStore.FindByTag(ctx, tag)
}

// Update implements Service.Update.
func (s *serviceImpl) Update(ctx context.Context, item *domain.VocabularyItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	if err := s.vocabStore.Update(ctx, item); err != nil {
		if errors.Is(err, store.ErrVocabularyNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to update vocabulary item: %w", err)
	}

	return nil
}

// Delete implements Service.Delete.
func (s *serviceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.vocabStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrVocabularyNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete vocabulary item: %w", err)
	}

	return nil
}
