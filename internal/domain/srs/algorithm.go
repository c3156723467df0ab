package srs

import (
	"math"
	"time"

	"github.com/topiklearn/srs-api/internal/domain"
)

// nextEaseFactor applies the SM-2 ease adjustment for a successful review:
//
//	EF' = EF + (0.1 − (5−q)·(0.08 + (5−q)·0.02))
//
// floored at params.MinEaseFactor. A perfect grade raises the factor
// slightly, a laboured pass lowers it. Lapses never reach this function;
// their ease factor is left untouched so a single bad day does not
// permanently punish a well-known item.
func nextEaseFactor(current float64, grade domain.ReviewGrade, params Params) float64 {
	q := float64(grade)
	next := current + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if next < params.MinEaseFactor {
		next = params.MinEaseFactor
	}

	return next
}

// nextInterval computes the interval, in days, after a successful review.
// repetitions is the new consecutive-success count (already incremented).
// The ramp is fixed for the first two successes, then scales the previous
// interval by easeFactor, which callers pass already adjusted for this
// review: three perfect reviews from the 2.5 default give 1, 6, 17 (6 x
// 2.8), not 15 (6 x 2.5). Using the pre-review ease factor here would be
// the bug, not the fix.
func nextInterval(previousInterval, repetitions int, easeFactor float64, params Params) int {
	var interval int
	switch repetitions {
	case 1:
		interval = params.FirstInterval
	case 2:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(previousInterval) * easeFactor))
	}

	if params.MaxInterval > 0 && interval > params.MaxInterval {
		interval = params.MaxInterval
	}

	return interval
}

// nextRecord computes the full post-review state. It never mutates the
// input record: callers receive a fresh copy with the review applied, so an
// aborted store write has no visible effect.
func nextRecord(
	record *domain.ProgressRecord,
	grade domain.ReviewGrade,
	now time.Time,
	params Params,
) *domain.ProgressRecord {
	next := record.Clone()
	next.LastStudied = now

	if !grade.Passing() {
		// Lapse: the success streak and interval reset, the ease factor
		// does not.
		next.Repetitions = 0
		next.IntervalDays = params.LapseInterval
		next.DueDate = now.AddDate(0, 0, params.LapseInterval)
		next.WrongAnswers = record.WrongAnswers + 1
		return next
	}

	next.EaseFactor = nextEaseFactor(record.EaseFactor, grade, params)
	next.Repetitions = record.Repetitions + 1
	next.IntervalDays = nextInterval(record.IntervalDays, next.Repetitions, next.EaseFactor, params)
	next.DueDate = now.AddDate(0, 0, next.IntervalDays)
	next.CorrectAnswers = record.CorrectAnswers + 1

	return next
}
