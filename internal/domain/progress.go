package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinEaseFactor is the floor below which an item's ease factor never drops.
// The floor prevents an item from becoming impossible to advance.
const MinEaseFactor = 1.3

// DefaultEaseFactor is the ease factor assigned to an item on its first review.
const DefaultEaseFactor = 2.5

// Common validation errors for ProgressRecord
var (
	ErrEmptyProgressVocabID = errors.New("progress record vocab ID cannot be empty")
	ErrNegativeInterval     = errors.New("interval days must be greater than or equal to 0")
	ErrNegativeRepetitions  = errors.New("repetitions must be greater than or equal to 0")
	ErrEaseFactorTooLow     = errors.New("ease factor must be at least 1.3")
	ErrNegativeCounters     = errors.New("answer counters must be greater than or equal to 0")
)

// ProgressRecord tracks the spaced-repetition state of a single vocabulary
// item. One record exists per item, created lazily on the item's first
// review; an item with no record has simply never been reviewed.
type ProgressRecord struct {
	VocabID        uuid.UUID `json:"vocab_id"`
	EaseFactor     float64   `json:"ease_factor"`     // >= 1.3 always
	IntervalDays   int       `json:"interval_days"`   // Days until the next due date
	Repetitions    int       `json:"repetitions"`     // Consecutive successful reviews
	DueDate        time.Time `json:"due_date"`        // Item is due once now >= DueDate
	CorrectAnswers int       `json:"correct_answers"` // Cumulative
	WrongAnswers   int       `json:"wrong_answers"`   // Cumulative
	LastStudied    time.Time `json:"last_studied"`    // Zero time if never reviewed
}

// NewProgressRecord seeds the state used for an item's first-ever review:
// default ease factor, no repetitions, due immediately.
func NewProgressRecord(vocabID uuid.UUID, now time.Time) (*ProgressRecord, error) {
	record := &ProgressRecord{
		VocabID:      vocabID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		DueDate:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks the record against the scheduling invariants. A record
// that fails validation must never be persisted.
func (p *ProgressRecord) Validate() error {
	if p.VocabID == uuid.Nil {
		return ErrEmptyProgressVocabID
	}

	if p.EaseFactor < MinEaseFactor {
		return ErrEaseFactorTooLow
	}

	if p.IntervalDays < 0 {
		return ErrNegativeInterval
	}

	if p.Repetitions < 0 {
		return ErrNegativeRepetitions
	}

	if p.CorrectAnswers < 0 || p.WrongAnswers < 0 {
		return ErrNegativeCounters
	}

	return nil
}

// Due reports whether the item should be presented for review at the given time.
func (p *ProgressRecord) Due(now time.Time) bool {
	return !now.Before(p.DueDate)
}

// TotalAnswers returns the cumulative number of recorded reviews.
func (p *ProgressRecord) TotalAnswers() int {
	return p.CorrectAnswers + p.WrongAnswers
}

// Clone returns a deep copy. The scheduler computes next states on copies so
// a failed store write leaves the caller's record untouched.
func (p *ProgressRecord) Clone() *ProgressRecord {
	c := *p
	return &c
}
