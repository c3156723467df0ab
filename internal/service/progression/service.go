// Package progression is the stats aggregator: it folds review events,
// session boundaries, and game results into the singleton UserStats
// record. Everything here is best-effort accounting; a failure degrades
// dashboard numbers but never blocks or invalidates scheduling.
package progression

import (
	"context"
	"time"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/events"
)

// Service maintains learner statistics and session history.
type Service interface {
	// Handler consumes review events from the scheduling path.
	events.Handler

	// Snapshot returns the current stats for dashboards.
	Snapshot(ctx context.Context) (*domain.UserStats, error)

	// CloseSession records an explicit session boundary, persists the
	// session summary, and advances the calendar-day streak: studying on
	// the day after the previous study day extends the streak, a longer
	// gap restarts it at 1, and a second session on the same day leaves
	// it unchanged.
	CloseSession(ctx context.Context, session *domain.StudySession) error

	// RecordGame persists a finished game and counts it toward the stats.
	RecordGame(ctx context.Context, result *domain.GameResult) error

	// ListSessions returns session history, newest first (limit 0 = all).
	ListSessions(ctx context.Context, limit int) ([]*domain.StudySession, error)

	// ListGames returns game history, newest first, optionally filtered
	// by game type (limit 0 = all).
	ListGames(ctx context.Context, gameType string, limit int) ([]*domain.GameResult, error)
}

// calendarDaysBetween returns the number of calendar-day boundaries (UTC)
// crossed between a and b. Same day is 0, consecutive days 1.
func calendarDaysBetween(a, b time.Time) int {
	ad := a.UTC().Truncate(24 * time.Hour)
	bd := b.UTC().Truncate(24 * time.Hour)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
