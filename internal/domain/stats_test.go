package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		xp       int
		expected int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{1000, 11},
		{-50, 1}, // malformed input clamps instead of failing
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestUserStatsValidate(t *testing.T) {
	t.Parallel()

	t.Run("fresh stats are valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, NewUserStats().Validate())
	})

	t.Run("best streak below current streak", func(t *testing.T) {
		t.Parallel()

		stats := NewUserStats()
		stats.CurrentStreak = 5
		stats.BestStreak = 3
		assert.ErrorIs(t, stats.Validate(), ErrInvalidStats)
	})

	t.Run("accuracy outside unit range", func(t *testing.T) {
		t.Parallel()

		stats := NewUserStats()
		stats.AverageAccuracy = 1.2
		assert.ErrorIs(t, stats.Validate(), ErrInvalidStats)
	})

	t.Run("negative counters", func(t *testing.T) {
		t.Parallel()

		stats := NewUserStats()
		stats.XP = -1
		assert.ErrorIs(t, stats.Validate(), ErrInvalidStats)
	})
}

func TestUserStatsClone(t *testing.T) {
	t.Parallel()

	stats := NewUserStats()
	clone := stats.Clone()
	clone.XP = 500

	assert.Equal(t, 0, stats.XP)
}
