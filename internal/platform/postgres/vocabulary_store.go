package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// VocabularyStore implements store.VocabularyStore on PostgreSQL.
type VocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewVocabularyStore creates a PostgreSQL-backed catalog store. The caller
// owns the database handle. If logger is nil, the default logger is used.
func NewVocabularyStore(db store.DBTX, logger *slog.Logger) *VocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &VocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

// Ensure VocabularyStore implements store.VocabularyStore
var _ store.VocabularyStore = (*VocabularyStore)(nil)

const vocabularyColumns = `id, headword, gloss, tags, added_at`

// scanVocabulary reads one catalog row. Tags are stored as a JSONB array.
func scanVocabulary(row interface{ Scan(...any) error }) (*domain.VocabularyItem, error) {
	var (
		item     domain.VocabularyItem
		tagsJSON []byte
	)

	if err := row.Scan(&item.ID, &item.Headword, &item.Gloss, &tagsJSON, &item.AddedAt); err != nil {
		return nil, err
	}

	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &item.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}

	return &item, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// CreateMultiple implements store.VocabularyStore.CreateMultiple.
func (s *VocabularyStore) CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return store.NewError("vocabulary", "create_multiple",
				fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
		}
	}

	query := `
		INSERT INTO vocabulary (id, headword, gloss, tags, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	for _, item := range items {
		tags, err := encodeTags(item.Tags)
		if err != nil {
			return store.NewError("vocabulary", "create_multiple", err)
		}

		if _, err := s.db.ExecContext(ctx, query,
			item.ID, item.Headword, item.Gloss, tags, item.AddedAt,
		); err != nil {
			return mapError("vocabulary", "create_multiple", err)
		}
	}

	return nil
}

// GetByID implements store.VocabularyStore.GetByID.
func (s *VocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM vocabulary WHERE id = $1`, vocabularyColumns)

	item, err := scanVocabulary(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVocabularyNotFound
		}
		return nil, mapError("vocabulary", "get_by_id", err)
	}

	return item, nil
}

// Exists implements store.VocabularyStore.Exists.
func (s *VocabularyStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM vocabulary WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, mapError("vocabulary", "exists", err)
	}

	return exists, nil
}

// ExistsForUpdate implements store.VocabularyStore.ExistsForUpdate. The
// row lock is held until the surrounding transaction ends, so this is only
// meaningful on a store bound via WithTx.
func (s *VocabularyStore) ExistsForUpdate(ctx context.Context, id uuid.UUID) (bool, error) {
	var got uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM vocabulary WHERE id = $1 FOR UPDATE`, id,
	).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapError("vocabulary", "exists_for_update", err)
	}

	return true, nil
}

// List implements store.VocabularyStore.List.
func (s *VocabularyStore) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM vocabulary ORDER BY added_at DESC, id ASC`, vocabularyColumns)
	return s.queryItems(ctx, "list", query)
}

// Search implements store.VocabularyStore.Search.
func (s *VocabularyStore) Search(ctx context.Context, query string) ([]*domain.VocabularyItem, error) {
	sqlQuery := fmt.Sprintf(`
		SELECT %s FROM vocabulary
		WHERE headword ILIKE '%%' || $1 || '%%' OR gloss ILIKE '%%' || $1 || '%%'
		ORDER BY added_at DESC, id ASC
	`, vocabularyColumns)
	return s.queryItems(ctx, "search", sqlQuery, query)
}

// FindByTag implements store.VocabularyStore.FindByTag.
func (s *VocabularyStore) FindByTag(ctx context.Context, tag string) ([]*domain.VocabularyItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM vocabulary
		WHERE tags @> to_jsonb(ARRAY[lower($1)])
		ORDER BY added_at DESC, id ASC
	`, vocabularyColumns)
	return s.queryItems(ctx, "find_by_tag", query, tag)
}

// Update implements store.VocabularyStore.Update.
func (s *VocabularyStore) Update(ctx context.Context, item *domain.VocabularyItem) error {
	if err := item.Validate(); err != nil {
		return store.NewError("vocabulary", "update",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	tags, err := encodeTags(item.Tags)
	if err != nil {
		return store.NewError("vocabulary", "update", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE vocabulary
		SET headword = $2, gloss = $3, tags = $4, added_at = $5
		WHERE id = $1
	`, item.ID, item.Headword, item.Gloss, tags, item.AddedAt)
	if err != nil {
		return mapError("vocabulary", "update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError("vocabulary", "update", err)
	}
	if affected == 0 {
		return store.ErrVocabularyNotFound
	}

	return nil
}

// Delete implements store.VocabularyStore.Delete.
func (s *VocabularyStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM vocabulary WHERE id = $1`, id)
	if err != nil {
		return mapError("vocabulary", "delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError("vocabulary", "delete", err)
	}
	if affected == 0 {
		return store.ErrVocabularyNotFound
	}

	return nil
}

func (s *VocabularyStore) queryItems(ctx context.Context, operation, query string, args ...any) ([]*domain.VocabularyItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("vocabulary", operation, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var items []*domain.VocabularyItem
	for rows.Next() {
		item, err := scanVocabulary(rows)
		if err != nil {
			return nil, mapError("vocabulary", operation, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("vocabulary", operation, err)
	}

	return items, nil
}

// WithTx implements store.VocabularyStore.WithTx.
func (s *VocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &VocabularyStore{db: tx, logger: s.logger}
}
