package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// SessionStore implements store.SessionStore on PostgreSQL.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSessionStore creates a PostgreSQL-backed session/game-result store.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure SessionStore implements store.SessionStore
var _ store.SessionStore = (*SessionStore)(nil)

// CreateSession implements store.SessionStore.CreateSession.
func (s *SessionStore) CreateSession(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return store.NewError("study_session", "create",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_sessions (id, words_studied, correct_count, wrong_count, duration_ms, session_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.ID, session.WordsStudied, session.CorrectCount, session.WrongCount,
		session.Duration.Milliseconds(), session.SessionDate)
	if err != nil {
		return mapError("study_session", "create", err)
	}

	return nil
}

// ListSessions implements store.SessionStore.ListSessions.
func (s *SessionStore) ListSessions(ctx context.Context, limit int) ([]*domain.StudySession, error) {
	query := `
		SELECT id, words_studied, correct_count, wrong_count, duration_ms, session_date
		FROM study_sessions
		ORDER BY session_date DESC, id ASC
	`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("study_session", "list", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var sessions []*domain.StudySession
	for rows.Next() {
		var (
			session    domain.StudySession
			durationMS int64
		)
		if err := rows.Scan(&session.ID, &session.WordsStudied, &session.CorrectCount,
			&session.WrongCount, &durationMS, &session.SessionDate); err != nil {
			return nil, mapError("study_session", "list", err)
		}
		session.Duration = time.Duration(durationMS) * time.Millisecond
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("study_session", "list", err)
	}

	return sessions, nil
}

// CreateGameResult implements store.SessionStore.CreateGameResult.
func (s *SessionStore) CreateGameResult(ctx context.Context, result *domain.GameResult) error {
	if err := result.Validate(); err != nil {
		return store.NewError("game_result", "create",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_results (id, game_type, score, correct_answers, total_questions, time_spent_ms, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, result.ID, result.GameType, result.Score, result.CorrectAnswers,
		result.TotalQuestions, result.TimeSpent.Milliseconds(), result.PlayedAt)
	if err != nil {
		return mapError("game_result", "create", err)
	}

	return nil
}

// ListGameResults implements store.SessionStore.ListGameResults.
func (s *SessionStore) ListGameResults(ctx context.Context, gameType string, limit int) ([]*domain.GameResult, error) {
	query := `
		SELECT id, game_type, score, correct_answers, total_questions, time_spent_ms, played_at
		FROM game_results
	`
	var args []any
	if gameType != "" {
		query += ` WHERE game_type = $1`
		args = append(args, gameType)
	}
	query += ` ORDER BY played_at DESC, id ASC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("game_result", "list", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var results []*domain.GameResult
	for rows.Next() {
		var (
			result      domain.GameResult
			timeSpentMS int64
		)
		if err := rows.Scan(&result.ID, &result.GameType, &result.Score, &result.CorrectAnswers,
			&result.TotalQuestions, &timeSpentMS, &result.PlayedAt); err != nil {
			return nil, mapError("game_result", "list", err)
		}
		result.TimeSpent = time.Duration(timeSpentMS) * time.Millisecond
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("game_result", "list", err)
	}

	return results, nil
}
