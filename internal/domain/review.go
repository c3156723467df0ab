package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidReviewGrade is returned when a grade falls outside [0, 5].
var ErrInvalidReviewGrade = errors.New("review grade must be between 0 and 5")

// ReviewGrade is a 0-5 self-assessed recall-strength score for a single
// review, following the SM-2 quality scale.
type ReviewGrade int

// Possible review grade values
const (
	GradeBlackout          ReviewGrade = 0 // Complete blackout, unable to recall
	GradeIncorrect         ReviewGrade = 1 // Incorrect, but remembered once shown
	GradeIncorrectFamiliar ReviewGrade = 2 // Incorrect, but the answer felt familiar
	GradeCorrectDifficult  ReviewGrade = 3 // Correct with significant effort
	GradeCorrectHesitation ReviewGrade = 4 // Correct after some hesitation
	GradePerfect           ReviewGrade = 5 // Perfect, instant recall
)

// PassThreshold is the lowest grade that counts as a successful recall.
// Grades below it are lapses.
const PassThreshold ReviewGrade = GradeCorrectDifficult

// Valid reports whether the grade is within the 0-5 scale.
func (g ReviewGrade) Valid() bool {
	return g >= GradeBlackout && g <= GradePerfect
}

// Passing reports whether the grade counts as a successful recall.
func (g ReviewGrade) Passing() bool {
	return g >= PassThreshold
}

// GradeFromCorrect maps a binary correct/incorrect answer onto the grade
// scale for callers that cannot grade more finely: correct answers land at
// "correct with hesitation", incorrect ones at "incorrect but recognized".
func GradeFromCorrect(correct bool) ReviewGrade {
	if correct {
		return GradeCorrectHesitation
	}
	return GradeIncorrect
}

// ReviewEvent describes one completed review of a vocabulary item. Events
// are transient: the scheduler and the stats aggregator each consume an
// event once, and it is not retained afterwards.
type ReviewEvent struct {
	VocabID   uuid.UUID     `json:"vocab_id"`
	Grade     ReviewGrade   `json:"grade"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Validate checks the event's grade; timestamps and durations are trusted
// from the caller and clamped downstream where they matter.
func (e *ReviewEvent) Validate() error {
	if !e.Grade.Valid() {
		return ErrInvalidReviewGrade
	}
	return nil
}
