// Package worker runs the background jobs: the nightly streak sweep and a
// periodic due-count report for operators.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/topiklearn/srs-api/internal/store"
)

// Worker owns the gocron scheduler and its jobs.
type Worker struct {
	scheduler     *gocron.Scheduler
	statsStore    store.UserStatsStore
	progressStore store.ProgressStore
	transactor    store.Transactor
	logger        *slog.Logger
}

// New creates a Worker. Jobs are registered but not started.
func New(
	statsStore store.UserStatsStore,
	progressStore store.ProgressStore,
	transactor store.Transactor,
	log *slog.Logger,
) *Worker {
	if statsStore == nil {
		panic("statsStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if transactor == nil {
		panic("transactor cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Worker{
		scheduler:     gocron.NewScheduler(time.UTC),
		statsStore:    statsStore,
		progressStore: progressStore,
		transactor:    transactor,
		logger:        log.With(slog.String("component", "worker")),
	}
}

// Start schedules the jobs and runs them asynchronously.
func (w *Worker) Start() error {
	if _, err := w.scheduler.Every(1).Day().At("00:05").Do(w.sweepStreak); err != nil {
		return fmt.Errorf("failed to schedule streak sweep: %w", err)
	}

	if _, err := w.scheduler.Every(1).Hour().Do(w.reportDueCount); err != nil {
		return fmt.Errorf("failed to schedule due-count report: %w", err)
	}

	w.scheduler.StartAsync()
	w.logger.Info("background worker started")
	return nil
}

// Stop terminates all scheduled jobs.
func (w *Worker) Stop() {
	w.scheduler.Stop()
	w.logger.Info("background worker stopped")
}

// sweepStreak zeroes the current streak shortly after midnight when the
// learner skipped the whole previous day. Session closes handle the normal
// increment/reset; this catches streaks that would otherwise show stale
// until the next session.
func (w *Worker) sweepStreak() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := w.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		statsStore := w.statsStore.WithTx(tx)

		stats, err := statsStore.GetForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if stats.CurrentStreak == 0 || stats.LastStudied.IsZero() {
			return nil
		}

		// LastStudied before yesterday means yesterday was skipped.
		yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
		if !stats.LastStudied.UTC().Truncate(24 * time.Hour).Before(yesterday) {
			return nil
		}

		w.logger.Info("resetting streak after missed day",
			slog.Int("previous_streak", stats.CurrentStreak),
			slog.Time("last_studied", stats.LastStudied))

		stats.CurrentStreak = 0
		return statsStore.Update(ctx, stats)
	})
	if err != nil {
		w.logger.Error("streak sweep failed", slog.String("error", err.Error()))
	}
}

// reportDueCount logs how many items are waiting for review.
func (w *Worker) reportDueCount() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := w.progressStore.ListDue(ctx, time.Now().UTC(), 0)
	if err != nil {
		w.logger.Error("due-count report failed", slog.String("error", err.Error()))
		return
	}

	w.logger.Info("review queue status", slog.Int("due_items", len(records)))
}
