package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for sessions and game results
var (
	ErrInvalidSessionCounts = errors.New("session review counts cannot be negative")
	ErrEmptyGameType        = errors.New("game type cannot be empty")
	ErrInvalidGameCounts    = errors.New("game result counts are inconsistent")
)

// StudySession summarizes one sitting of reviews. Recording a session is the
// explicit session boundary that drives streak accounting.
type StudySession struct {
	ID           uuid.UUID     `json:"id"`
	WordsStudied int           `json:"words_studied"`
	CorrectCount int           `json:"correct_count"`
	WrongCount   int           `json:"wrong_count"`
	Duration     time.Duration `json:"duration"`
	SessionDate  time.Time     `json:"session_date"`
}

// NewStudySession creates a session summary dated at the given time.
func NewStudySession(wordsStudied, correct, wrong int, duration time.Duration, at time.Time) (*StudySession, error) {
	s := &StudySession{
		ID:           uuid.New(),
		WordsStudied: wordsStudied,
		CorrectCount: correct,
		WrongCount:   wrong,
		Duration:     duration,
		SessionDate:  at,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the session counters.
func (s *StudySession) Validate() error {
	if s.WordsStudied < 0 || s.CorrectCount < 0 || s.WrongCount < 0 || s.Duration < 0 {
		return ErrInvalidSessionCounts
	}
	return nil
}

// GameResult records the outcome of one practice game.
type GameResult struct {
	ID             uuid.UUID     `json:"id"`
	GameType       string        `json:"game_type"`
	Score          int           `json:"score"`
	CorrectAnswers int           `json:"correct_answers"`
	TotalQuestions int           `json:"total_questions"`
	TimeSpent      time.Duration `json:"time_spent"`
	PlayedAt       time.Time     `json:"played_at"`
}

// NewGameResult creates a game result played at the given time.
func NewGameResult(gameType string, score, correct, total int, timeSpent time.Duration, at time.Time) (*GameResult, error) {
	g := &GameResult{
		ID:             uuid.New(),
		GameType:       gameType,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
		TimeSpent:      timeSpent,
		PlayedAt:       at,
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks the game result counters.
func (g *GameResult) Validate() error {
	if g.GameType == "" {
		return ErrEmptyGameType
	}

	if g.CorrectAnswers < 0 || g.TotalQuestions < 0 || g.CorrectAnswers > g.TotalQuestions {
		return ErrInvalidGameCounts
	}

	return nil
}
