package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/domain"
)

func TestServiceNextReview_InvalidInput(t *testing.T) {
	t.Parallel()

	service := NewService()
	now := time.Now().UTC()
	record := newTestRecord(t, now)

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()

		next, err := service.NextReview(nil, domain.GradePerfect, now)
		assert.ErrorIs(t, err, ErrNilRecord)
		assert.Nil(t, next)
	})

	t.Run("grade above the scale", func(t *testing.T) {
		t.Parallel()

		next, err := service.NextReview(record, domain.ReviewGrade(6), now)
		assert.ErrorIs(t, err, ErrInvalidGrade)
		assert.Nil(t, next)
	})

	t.Run("negative grade", func(t *testing.T) {
		t.Parallel()

		next, err := service.NextReview(record, domain.ReviewGrade(-1), now)
		assert.ErrorIs(t, err, ErrInvalidGrade)
		assert.Nil(t, next)
	})
}

func TestServiceNextReview_FailedRecordUnchanged(t *testing.T) {
	t.Parallel()

	service := NewService()
	now := time.Now().UTC()

	record := newTestRecord(t, now)
	original := record.Clone()

	_, err := service.NextReview(record, domain.ReviewGrade(6), now)
	require.Error(t, err)

	// A rejected review leaves the caller's record untouched.
	assert.Equal(t, original, record)
}

func TestServiceNextReview_ReturnsNewInstance(t *testing.T) {
	t.Parallel()

	service := NewService()
	now := time.Now().UTC()
	record := newTestRecord(t, now)

	next, err := service.NextReview(record, domain.GradePerfect, now)
	require.NoError(t, err)
	require.NotSame(t, record, next)

	assert.Equal(t, 0, record.Repetitions)
	assert.Equal(t, 1, next.Repetitions)
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()

	t.Run("valid params", func(t *testing.T) {
		t.Parallel()

		service, err := NewServiceWithParams(Params{
			MinEaseFactor:  1.3,
			FirstInterval:  2,
			SecondInterval: 8,
			LapseInterval:  1,
			MaxInterval:    180,
		})
		require.NoError(t, err)

		record := newTestRecord(t, time.Now().UTC())
		next, err := service.NextReview(record, domain.GradePerfect, time.Now().UTC())
		require.NoError(t, err)
		assert.Equal(t, 2, next.IntervalDays)
	})

	t.Run("invalid params rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewServiceWithParams(Params{MinEaseFactor: 0.5})
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestServicePostpone(t *testing.T) {
	t.Parallel()

	service := NewService()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("pushes the due date forward", func(t *testing.T) {
		t.Parallel()

		record := newTestRecord(t, now)
		record.DueDate = now.AddDate(0, 0, 2)

		next, err := service.Postpone(record, 3, now)
		require.NoError(t, err)

		assert.Equal(t, now.AddDate(0, 0, 5), next.DueDate)
		assert.Equal(t, record.Repetitions, next.Repetitions, "postpone records no review")
	})

	t.Run("overdue item is postponed from now", func(t *testing.T) {
		t.Parallel()

		record := newTestRecord(t, now)
		record.DueDate = now.AddDate(0, 0, -10)

		next, err := service.Postpone(record, 2, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 2), next.DueDate)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		t.Parallel()

		record := newTestRecord(t, now)

		_, err := service.Postpone(record, 0, now)
		assert.ErrorIs(t, err, ErrInvalidPostpone)
	})
}
