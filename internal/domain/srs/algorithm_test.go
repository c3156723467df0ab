package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/domain"
)

func newTestRecord(t *testing.T, now time.Time) *domain.ProgressRecord {
	t.Helper()
	record, err := domain.NewProgressRecord(uuid.New(), now)
	require.NoError(t, err)
	return record
}

func TestNextEaseFactor(t *testing.T) {
	t.Parallel()

	params := DefaultParams()

	testCases := []struct {
		name     string
		current  float64
		grade    domain.ReviewGrade
		expected float64
	}{
		{
			name:     "perfect recall raises the factor",
			current:  2.5,
			grade:    domain.GradePerfect,
			expected: 2.6,
		},
		{
			name:     "hesitant recall keeps the factor",
			current:  2.5,
			grade:    domain.GradeCorrectHesitation,
			expected: 2.5,
		},
		{
			name:     "difficult recall lowers the factor",
			current:  2.5,
			grade:    domain.GradeCorrectDifficult,
			expected: 2.36,
		},
		{
			name:     "factor never drops below the floor",
			current:  1.3,
			grade:    domain.GradeCorrectDifficult,
			expected: 1.3,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := nextEaseFactor(tc.current, tc.grade, params)
			assert.InDelta(t, tc.expected, got, 0.0001)
		})
	}
}

func TestNextInterval(t *testing.T) {
	t.Parallel()

	params := DefaultParams()

	testCases := []struct {
		name        string
		previous    int
		repetitions int
		easeFactor  float64
		expected    int
	}{
		{name: "first success is one day", previous: 0, repetitions: 1, easeFactor: 2.6, expected: 1},
		{name: "second success is six days", previous: 1, repetitions: 2, easeFactor: 2.7, expected: 6},
		{name: "third success scales by ease", previous: 6, repetitions: 3, easeFactor: 2.8, expected: 17},
		{name: "scaled interval rounds to nearest", previous: 6, repetitions: 3, easeFactor: 2.5, expected: 15},
		{name: "growth is capped at one year", previous: 300, repetitions: 8, easeFactor: 2.5, expected: 365},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := nextInterval(tc.previous, tc.repetitions, tc.easeFactor, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNextRecord_Lapse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	params := DefaultParams()

	// A well-established item: repetitions=2, interval=6, ease 2.5.
	record := newTestRecord(t, now.AddDate(0, 0, -6))
	record.Repetitions = 2
	record.IntervalDays = 6
	record.CorrectAnswers = 2

	for _, grade := range []domain.ReviewGrade{
		domain.GradeBlackout,
		domain.GradeIncorrect,
		domain.GradeIncorrectFamiliar,
	} {
		next := nextRecord(record, grade, now, params)

		assert.Equal(t, 0, next.Repetitions, "lapse resets repetitions")
		assert.Equal(t, 1, next.IntervalDays, "lapse sets a one-day interval")
		assert.InDelta(t, 2.5, next.EaseFactor, 0.0001, "lapse leaves the ease factor unchanged")
		assert.Equal(t, now.AddDate(0, 0, 1), next.DueDate)
		assert.Equal(t, 1, next.WrongAnswers)
		assert.Equal(t, 2, next.CorrectAnswers, "correct counter untouched on lapse")
		assert.Equal(t, now, next.LastStudied)
	}

	// The input record is never mutated.
	assert.Equal(t, 2, record.Repetitions)
	assert.Equal(t, 6, record.IntervalDays)
	assert.Equal(t, 0, record.WrongAnswers)
}

func TestNextRecord_SuccessRamp(t *testing.T) {
	t.Parallel()

	params := DefaultParams()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	record := newTestRecord(t, now)

	// Three consecutive perfect reviews, one day apart. The interval ramp
	// is 1, 6, then the previous interval scaled by the updated ease
	// factor: 2.5 rises to 2.8, so round(6 * 2.8) = 17.
	expected := []struct {
		interval   int
		easeFactor float64
	}{
		{interval: 1, easeFactor: 2.6},
		{interval: 6, easeFactor: 2.7},
		{interval: 17, easeFactor: 2.8},
	}

	current := record
	for i, want := range expected {
		reviewTime := now.AddDate(0, 0, i)
		next := nextRecord(current, domain.GradePerfect, reviewTime, params)

		assert.Equal(t, want.interval, next.IntervalDays, "review %d interval", i+1)
		assert.InDelta(t, want.easeFactor, next.EaseFactor, 0.0001, "review %d ease factor", i+1)
		assert.Equal(t, i+1, next.Repetitions, "review %d repetitions", i+1)
		assert.Equal(t, reviewTime.AddDate(0, 0, want.interval), next.DueDate)
		assert.Equal(t, i+1, next.CorrectAnswers)

		current = next
	}
}

func TestNextRecord_InvariantsHold(t *testing.T) {
	t.Parallel()

	params := DefaultParams()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Walk a grinding sequence of mixed grades; every reachable state must
	// satisfy the record invariants.
	grades := []domain.ReviewGrade{5, 3, 3, 1, 4, 0, 3, 3, 3, 2, 5, 5, 3, 1, 3}

	record := newTestRecord(t, now)
	for i, grade := range grades {
		record = nextRecord(record, grade, now.AddDate(0, 0, i), params)

		require.NoError(t, record.Validate())
		assert.GreaterOrEqual(t, record.EaseFactor, domain.MinEaseFactor)
		assert.GreaterOrEqual(t, record.IntervalDays, 0)
		assert.GreaterOrEqual(t, record.Repetitions, 0)
	}

	assert.Equal(t, len(grades), record.TotalAnswers())
}
