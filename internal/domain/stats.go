package domain

import (
	"errors"
	"time"
)

// XP and level progression constants. Level is a monotonic step function of
// cumulative XP and is never decremented.
const (
	XPPerCorrectReview = 10
	XPPerLevel         = 100
)

// ErrInvalidStats is returned when a UserStats snapshot violates its
// invariants (negative counters or bestStreak < currentStreak).
var ErrInvalidStats = errors.New("invalid user stats")

// UserStats is the single-tenant learner statistics record. It is owned
// exclusively by the stats aggregator; all counters are best-effort and
// clamped rather than failed on malformed input.
type UserStats struct {
	TotalWordsLearned int           `json:"total_words_learned"`
	CurrentStreak     int           `json:"current_streak"` // Consecutive calendar days studied
	BestStreak        int           `json:"best_streak"`
	TotalGamesPlayed  int           `json:"total_games_played"`
	AverageAccuracy   float64       `json:"average_accuracy"` // Running mean over all answers, 0-1
	TotalTimeSpent    time.Duration `json:"total_time_spent"`
	Level             int           `json:"level"`
	XP                int           `json:"xp"`
	LastStudied       time.Time     `json:"last_studied"` // Global, not per-item
}

// NewUserStats returns the zero-progress snapshot used to seed the singleton row.
func NewUserStats() *UserStats {
	return &UserStats{Level: 1}
}

// Validate checks the stats invariants.
func (s *UserStats) Validate() error {
	if s.TotalWordsLearned < 0 || s.CurrentStreak < 0 || s.BestStreak < 0 ||
		s.TotalGamesPlayed < 0 || s.XP < 0 || s.Level < 1 {
		return ErrInvalidStats
	}

	if s.BestStreak < s.CurrentStreak {
		return ErrInvalidStats
	}

	if s.AverageAccuracy < 0 || s.AverageAccuracy > 1 {
		return ErrInvalidStats
	}

	return nil
}

// LevelForXP computes the level reached at the given cumulative XP.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

// Clone returns a deep copy of the stats snapshot.
func (s *UserStats) Clone() *UserStats {
	c := *s
	return &c
}
