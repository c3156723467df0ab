package store

import (
	"context"

	"github.com/topiklearn/srs-api/internal/domain"
)

// SessionStore persists study-session summaries and game results. Both are
// append-mostly history consumed by the stats aggregator and dashboards.
type SessionStore interface {
	// CreateSession records a study session.
	CreateSession(ctx context.Context, session *domain.StudySession) error

	// ListSessions returns sessions newest first, capped at limit
	// (0 = unbounded).
	ListSessions(ctx context.Context, limit int) ([]*domain.StudySession, error)

	// CreateGameResult records a finished game.
	CreateGameResult(ctx context.Context, result *domain.GameResult) error

	// ListGameResults returns results newest first, optionally filtered by
	// game type (empty = all), capped at limit (0 = unbounded).
	ListGameResults(ctx context.Context, gameType string, limit int) ([]*domain.GameResult, error)
}
