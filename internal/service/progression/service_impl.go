package progression

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/events"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	statsStore    store.UserStatsStore
	progressStore store.ProgressStore
	sessionStore  store.SessionStore
	transactor    store.Transactor
	logger        *slog.Logger
}

// NewService creates the stats aggregator.
func NewService(
	statsStore store.UserStatsStore,
	progressStore store.ProgressStore,
	sessionStore store.SessionStore,
	transactor store.Transactor,
	log *slog.Logger,
) Service {
	if statsStore == nil {
		panic("statsStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if transactor == nil {
		panic("transactor cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		statsStore:    statsStore,
		progressStore: progressStore,
		sessionStore:  sessionStore,
		transactor:    transactor,
		logger:        log.With(slog.String("component", "progression_service")),
	}
}

// HandleEvent implements events.Handler. Review events update the running
// accuracy, time spent, XP, and level. The stats row lock is the single
// serialization point for all writers.
func (s *serviceImpl) HandleEvent(ctx context.Context, event *events.Event) error {
	if event == nil || event.Type != events.TypeReviewRecorded || event.Review == nil {
		return nil
	}

	review := event.Review

	return s.updateStats(ctx, func(ctx context.Context, tx *sql.Tx, stats *domain.UserStats) error {
		records, err := s.progressStore.WithTx(tx).ListAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list progress records: %w", err)
		}

		stats.AverageAccuracy = overallAccuracy(records)
		stats.TotalWordsLearned = wordsLearned(records)

		if review.Duration > 0 {
			stats.TotalTimeSpent += review.Duration
		}

		if review.Grade.Passing() {
			stats.XP += domain.XPPerCorrectReview
		}

		// Level only ever steps up; XP never decreases so this holds.
		stats.Level = domain.LevelForXP(stats.XP)

		if review.Timestamp.After(stats.LastStudied) {
			stats.LastStudied = review.Timestamp
		}

		return nil
	})
}

// Snapshot implements Service.Snapshot.
func (s *serviceImpl) Snapshot(ctx context.Context) (*domain.UserStats, error) {
	return s.statsStore.Get(ctx)
}

// CloseSession implements Service.CloseSession.
func (s *serviceImpl) CloseSession(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	// The session is saved; from here on failures only degrade counters.
	err := s.updateStats(ctx, func(ctx context.Context, tx *sql.Tx, stats *domain.UserStats) error {
		advanceStreak(stats, session.SessionDate)
		return nil
	})
	if err != nil {
		log.Error("failed to update streak after session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
	}

	return nil
}

// RecordGame implements Service.RecordGame.
func (s *serviceImpl) RecordGame(ctx context.Context, result *domain.GameResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		return err
	}

	if err := s.sessionStore.CreateGameResult(ctx, result); err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}

	err := s.updateStats(ctx, func(ctx context.Context, tx *sql.Tx, stats *domain.UserStats) error {
		stats.TotalGamesPlayed++
		if result.TimeSpent > 0 {
			stats.TotalTimeSpent += result.TimeSpent
		}
		if result.PlayedAt.After(stats.LastStudied) {
			stats.LastStudied = result.PlayedAt
		}
		return nil
	})
	if err != nil {
		log.Error("failed to update stats after game",
			slog.String("error", err.Error()),
			slog.String("game_id", result.ID.String()))
	}

	return nil
}

// ListSessions implements Service.ListSessions.
func (s *serviceImpl) ListSessions(ctx context.Context, limit int) ([]*domain.StudySession, error) {
	return s.sessionStore.ListSessions(ctx, limit)
}

// ListGames implements Service.ListGames.
func (s *serviceImpl) ListGames(ctx context.Context, gameType string, limit int) ([]*domain.GameResult, error) {
	return s.sessionStore.ListGameResults(ctx, gameType, limit)
}

// updateStats reads the locked stats row, applies fn, clamps the result,
// and writes it back, all within one transaction.
func (s *serviceImpl) updateStats(
	ctx context.Context,
	fn func(ctx context.Context, tx *sql.Tx, stats *domain.UserStats) error,
) error {
	return s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		statsStore := s.statsStore.WithTx(tx)

		stats, err := statsStore.GetForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if err := fn(ctx, tx, stats); err != nil {
			return err
		}

		clampStats(stats)

		if err := statsStore.Update(ctx, stats); err != nil {
			return fmt.Errorf("failed to update stats: %w", err)
		}

		return nil
	})
}

// advanceStreak applies the calendar-day streak rules to stats for a
// session closed at the given time.
func advanceStreak(stats *domain.UserStats, at time.Time) {
	switch {
	case stats.LastStudied.IsZero():
		stats.CurrentStreak = 1
	default:
		switch calendarDaysBetween(stats.LastStudied, at) {
		case 0:
			// Second session on the same day: streak unchanged.
			if stats.CurrentStreak == 0 {
				stats.CurrentStreak = 1
			}
		case 1:
			stats.CurrentStreak++
		default:
			stats.CurrentStreak = 1
		}
	}

	if stats.CurrentStreak > stats.BestStreak {
		stats.BestStreak = stats.CurrentStreak
	}

	if at.After(stats.LastStudied) {
		stats.LastStudied = at
	}
}

// overallAccuracy computes the running mean over all recorded answers.
func overallAccuracy(records []*domain.ProgressRecord) float64 {
	var correct, total int
	for _, r := range records {
		correct += r.CorrectAnswers
		total += r.TotalAnswers()
	}

	if total == 0 {
		return 0
	}

	return float64(correct) / float64(total)
}

// wordsLearned counts items answered correctly at least once.
func wordsLearned(records []*domain.ProgressRecord) int {
	n := 0
	for _, r := range records {
		if r.CorrectAnswers > 0 {
			n++
		}
	}
	return n
}

// clampStats forces counters back into their valid ranges. Malformed input
// degrades the numbers; it never fails the operation.
func clampStats(stats *domain.UserStats) {
	if stats.TotalWordsLearned < 0 {
		stats.TotalWordsLearned = 0
	}
	if stats.CurrentStreak < 0 {
		stats.CurrentStreak = 0
	}
	if stats.BestStreak < stats.CurrentStreak {
		stats.BestStreak = stats.CurrentStreak
	}
	if stats.TotalGamesPlayed < 0 {
		stats.TotalGamesPlayed = 0
	}
	if stats.AverageAccuracy < 0 {
		stats.AverageAccuracy = 0
	}
	if stats.AverageAccuracy > 1 {
		stats.AverageAccuracy = 1
	}
	if stats.TotalTimeSpent < 0 {
		stats.TotalTimeSpent = 0
	}
	if stats.XP < 0 {
		stats.XP = 0
	}
	if stats.Level < 1 {
		stats.Level = 1
	}
}
