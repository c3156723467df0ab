package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// ProgressStore implements store.ProgressStore on PostgreSQL.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a PostgreSQL-backed progress store. The caller
// owns the database handle. If logger is nil, the default logger is used.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure ProgressStore implements store.ProgressStore
var _ store.ProgressStore = (*ProgressStore)(nil)

const progressColumns = `vocab_id, ease_factor, interval_days, repetitions, due_date,
	correct_answers, wrong_answers, last_studied`

// scanProgress reads one progress row. last_studied is nullable: an absent
// value means the record was seeded but never finalized, which the domain
// represents as the zero time.
func scanProgress(row interface{ Scan(...any) error }) (*domain.ProgressRecord, error) {
	var (
		record      domain.ProgressRecord
		lastStudied sql.NullTime
	)

	err := row.Scan(
		&record.VocabID,
		&record.EaseFactor,
		&record.IntervalDays,
		&record.Repetitions,
		&record.DueDate,
		&record.CorrectAnswers,
		&record.WrongAnswers,
		&lastStudied,
	)
	if err != nil {
		return nil, err
	}

	if lastStudied.Valid {
		record.LastStudied = lastStudied.Time
	}

	return &record, nil
}

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM vocab_progress WHERE vocab_id = $1`, progressColumns)

	record, err := scanProgress(s.db.QueryRowContext(ctx, query, vocabID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, mapError("progress", "get", err)
	}

	return record, nil
}

// GetForUpdate implements store.ProgressStore.GetForUpdate. The FOR UPDATE
// row lock serializes writers that already have a progress row; reviews of
// distinct items lock distinct rows and proceed in parallel. An item's
// first reviews have no row here yet and rely on the catalog row lock
// taken by VocabularyStore.ExistsForUpdate.
func (s *ProgressStore) GetForUpdate(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM vocab_progress WHERE vocab_id = $1 FOR UPDATE`, progressColumns)

	record, err := scanProgress(s.db.QueryRowContext(ctx, query, vocabID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, mapError("progress", "get_for_update", err)
	}

	return record, nil
}

// Upsert implements store.ProgressStore.Upsert.
func (s *ProgressStore) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	if record == nil {
		return store.NewError("progress", "upsert", store.ErrConstraintViolation)
	}

	if err := record.Validate(); err != nil {
		// The scheduler never produces invalid records; reaching this path
		// indicates a bug upstream.
		s.logger.Error("rejecting invalid progress record",
			slog.String("vocab_id", record.VocabID.String()),
			slog.String("error", err.Error()))
		return store.NewError("progress", "upsert", fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	query := `
		INSERT INTO vocab_progress (
			vocab_id, ease_factor, interval_days, repetitions, due_date,
			correct_answers, wrong_answers, last_studied
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vocab_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			due_date = EXCLUDED.due_date,
			correct_answers = EXCLUDED.correct_answers,
			wrong_answers = EXCLUDED.wrong_answers,
			last_studied = EXCLUDED.last_studied
	`

	var lastStudied sql.NullTime
	if !record.LastStudied.IsZero() {
		lastStudied = sql.NullTime{Time: record.LastStudied, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		record.VocabID,
		record.EaseFactor,
		record.IntervalDays,
		record.Repetitions,
		record.DueDate,
		record.CorrectAnswers,
		record.WrongAnswers,
		lastStudied,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.NewError("progress", "upsert", store.ErrVocabularyNotFound)
		}
		return mapError("progress", "upsert", err)
	}

	return nil
}

// ListDue implements store.ProgressStore.ListDue.
func (s *ProgressStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.ProgressRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM vocab_progress
		WHERE due_date <= $1
		ORDER BY due_date ASC, vocab_id ASC
	`, progressColumns)

	args := []any{now}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return s.queryRecords(ctx, "list_due", query, args...)
}

// ListAll implements store.ProgressStore.ListAll.
func (s *ProgressStore) ListAll(ctx context.Context) ([]*domain.ProgressRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM vocab_progress ORDER BY vocab_id ASC`, progressColumns)
	return s.queryRecords(ctx, "list_all", query)
}

func (s *ProgressStore) queryRecords(ctx context.Context, operation, query string, args ...any) ([]*domain.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("progress", operation, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var records []*domain.ProgressRecord
	for rows.Next() {
		record, err := scanProgress(rows)
		if err != nil {
			return nil, mapError("progress", operation, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("progress", operation, err)
	}

	return records, nil
}

// WithTx implements store.ProgressStore.WithTx.
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{db: tx, logger: s.logger}
}
