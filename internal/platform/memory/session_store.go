package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// SessionStore implements store.SessionStore on mutex-guarded slices.
type SessionStore struct {
	mu       sync.RWMutex
	sessions []domain.StudySession
	games    []domain.GameResult
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Ensure SessionStore implements store.SessionStore
var _ store.SessionStore = (*SessionStore)(nil)

// CreateSession implements store.SessionStore.CreateSession.
func (s *SessionStore) CreateSession(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return store.NewError("study_session", "create",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = append(s.sessions, *session)
	return nil
}

// ListSessions implements store.SessionStore.ListSessions.
func (s *SessionStore) ListSessions(ctx context.Context, limit int) ([]*domain.StudySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.StudySession, 0, len(s.sessions))
	for i := range s.sessions {
		c := s.sessions[i]
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SessionDate.After(out[j].SessionDate)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// CreateGameResult implements store.SessionStore.CreateGameResult.
func (s *SessionStore) CreateGameResult(ctx context.Context, result *domain.GameResult) error {
	if err := result.Validate(); err != nil {
		return store.NewError("game_result", "create",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = append(s.games, *result)
	return nil
}

// ListGameResults implements store.SessionStore.ListGameResults.
func (s *SessionStore) ListGameResults(ctx context.Context, gameType string, limit int) ([]*domain.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.GameResult
	for i := range s.games {
		if gameType != "" && s.games[i].GameType != gameType {
			continue
		}
		c := s.games[i]
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayedAt.After(out[j].PlayedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
