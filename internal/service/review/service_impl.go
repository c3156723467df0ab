package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/domain/srs"
	"github.com/topiklearn/srs-api/internal/events"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	vocabStore    store.VocabularyStore
	progressStore store.ProgressStore
	transactor    store.Transactor
	srsService    srs.Service
	emitter       events.Emitter
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates a review Service. The emitter may be nil, in which
// case review events are not published.
func NewService(
	vocabStore store.VocabularyStore,
	progressStore store.ProgressStore,
	transactor store.Transactor,
	srsService srs.Service,
	emitter events.Emitter,
	log *slog.Logger,
) Service {
	if vocabStore == nil {
		panic("vocabStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if transactor == nil {
		panic("transactor cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		vocabStore:    vocabStore,
		progressStore: progressStore,
		transactor:    transactor,
		srsService:    srsService,
		emitter:       emitter,
		logger:        log.With(slog.String("component", "review_service")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SubmitReview implements Service.SubmitReview.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	vocabID uuid.UUID,
	submission Submission,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("vocab_id", vocabID.String()),
		slog.Int("grade", int(submission.Grade)))

	// Reject the grade before touching any store.
	if !submission.Grade.Valid() {
		log.Warn("invalid review grade",
			slog.String("vocab_id", vocabID.String()),
			slog.Int("grade", int(submission.Grade)))
		return nil, ErrInvalidGrade
	}

	now := s.now()

	var updated *domain.ProgressRecord
	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		vocabStore := s.vocabStore.WithTx(tx)
		progressStore := s.progressStore.WithTx(tx)

		// The catalog row lock serializes concurrent reviews of the same
		// item, including its first-ever reviews, which have no progress
		// row to lock yet.
		exists, err := vocabStore.ExistsForUpdate(ctx, vocabID)
		if err != nil {
			return fmt.Errorf("failed to check vocabulary item: %w", err)
		}
		if !exists {
			log.Warn("review submitted for unknown item",
				slog.String("vocab_id", vocabID.String()))
			return ErrUnknownItem
		}

		record, err := progressStore.GetForUpdate(ctx, vocabID)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return fmt.Errorf("failed to get progress record: %w", err)
			}
			// First review of this item: start from the initial state.
			record, err = domain.NewProgressRecord(vocabID, now)
			if err != nil {
				return fmt.Errorf("failed to seed progress record: %w", err)
			}
		}

		next, err := s.srsService.NextReview(record, submission.Grade, now)
		if err != nil {
			return fmt.Errorf("failed to compute next review: %w", err)
		}

		if err := progressStore.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save progress record: %w", err)
		}

		updated = next
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrUnknownItem) {
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("vocab_id", vocabID.String()))
		return nil, NewSubmitReviewError("review could not be recorded", err)
	}

	s.emitReview(ctx, domain.ReviewEvent{
		VocabID:   vocabID,
		Grade:     submission.Grade,
		Timestamp: now,
		Duration:  submission.Duration,
	})

	log.Debug("review recorded",
		slog.String("vocab_id", vocabID.String()),
		slog.Int("grade", int(submission.Grade)),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Time("due_date", updated.DueDate))

	return updated, nil
}

// emitReview publishes the review to the aggregator. The review is already
// committed; emission failures are logged and never surfaced to the caller.
func (s *serviceImpl) emitReview(ctx context.Context, review domain.ReviewEvent) {
	if s.emitter == nil {
		return
	}

	if err := s.emitter.EmitEvent(ctx, events.NewReviewRecorded(review)); err != nil {
		s.logger.Error("failed to emit review event",
			slog.String("error", err.Error()),
			slog.String("vocab_id", review.VocabID.String()))
	}
}

// DueItems implements Service.DueItems.
func (s *serviceImpl) DueItems(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*DueItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.progressStore.ListDue(ctx, now, limit)
	if err != nil {
		log.Error("failed to list due records", slog.String("error", err.Error()))
		return nil, NewDueItemsError("due items could not be listed", err)
	}

	items := make([]*DueItem, 0, len(records))
	for _, record := range records {
		item, err := s.vocabStore.GetByID(ctx, record.VocabID)
		if err != nil {
			if errors.Is(err, store.ErrVocabularyNotFound) {
				// Progress without a catalog entry should be impossible
				// under the FK; skip rather than fail the whole queue.
				log.Warn("due record has no catalog entry",
					slog.String("vocab_id", record.VocabID.String()))
				continue
			}
			return nil, NewDueItemsError("due items could not be resolved", err)
		}

		items = append(items, &DueItem{Item: item, Progress: record})
	}

	return items, nil
}

// NextDue implements Service.NextDue.
func (s *serviceImpl) NextDue(ctx context.Context, now time.Time) (*DueItem, error) {
	items, err := s.DueItems(ctx, now, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItemsDue
	}
	return items[0], nil
}

// GetProgress implements Service.GetProgress.
func (s *serviceImpl) GetProgress(
	ctx context.Context,
	vocabID uuid.UUID,
) (*domain.ProgressRecord, error) {
	record, err := s.progressStore.Get(ctx, vocabID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			exists, existsErr := s.vocabStore.Exists(ctx, vocabID)
			if existsErr != nil {
				return nil, fmt.Errorf("failed to check vocabulary item: %w", existsErr)
			}
			if !exists {
				return nil, ErrUnknownItem
			}
			return nil, ErrNeverReviewed
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}

	return record, nil
}

// Postpone implements Service.Postpone.
func (s *serviceImpl) Postpone(
	ctx context.Context,
	vocabID uuid.UUID,
	days int,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()

	var updated *domain.ProgressRecord
	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progressStore := s.progressStore.WithTx(tx)

		record, err := progressStore.GetForUpdate(ctx, vocabID)
		if err != nil {
			if errors.Is(err, store.ErrProgressNotFound) {
				return ErrNeverReviewed
			}
			return fmt.Errorf("failed to get progress record: %w", err)
		}

		next, err := s.srsService.Postpone(record, days, now)
		if err != nil {
			return err
		}

		if err := progressStore.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save progress record: %w", err)
		}

		updated = next
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNeverReviewed) || errors.Is(err, srs.ErrInvalidPostpone) {
			return nil, err
		}

		log.Error("failed to postpone item",
			slog.String("error", err.Error()),
			slog.String("vocab_id", vocabID.String()))
		return nil, &ServiceError{Operation: "postpone", Message: "item could not be postponed", Err: err}
	}

	return updated, nil
}
