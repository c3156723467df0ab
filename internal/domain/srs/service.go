package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/topiklearn/srs-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord       = errors.New("progress record cannot be nil")
	ErrInvalidGrade    = errors.New("invalid review grade")
	ErrInvalidParams   = errors.New("invalid scheduler parameters")
	ErrInvalidPostpone = errors.New("postpone days must be at least 1")
)

// Service computes spaced-repetition schedules. Implementations are pure:
// given the same record, grade, and clock reading they return the same next
// record, which is what makes a failed store write safely retryable.
type Service interface {
	// NextReview computes the record state after one review. The returned
	// record is a new instance; the input is never mutated.
	NextReview(
		record *domain.ProgressRecord,
		grade domain.ReviewGrade,
		now time.Time,
	) (*domain.ProgressRecord, error)

	// Postpone pushes an item's due date forward by a number of days
	// without recording a review.
	Postpone(
		record *domain.ProgressRecord,
		days int,
		now time.Time,
	) (*domain.ProgressRecord, error)
}

type defaultService struct {
	params Params
}

// NewService creates a scheduler with the standard SM-2 parameters.
func NewService() Service {
	return &defaultService{params: DefaultParams()}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("srs: %w", err)
	}
	return &defaultService{params: params}, nil
}

// NextReview implements Service.
func (s *defaultService) NextReview(
	record *domain.ProgressRecord,
	grade domain.ReviewGrade,
	now time.Time,
) (*domain.ProgressRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if !grade.Valid() {
		return nil, ErrInvalidGrade
	}

	next := nextRecord(record, grade, now, s.params)

	// The algorithm cannot produce an invalid record from a valid one;
	// this guards against a future parameter or formula regression.
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler produced invalid record: %w", err)
	}

	return next, nil
}

// Postpone implements Service.
func (s *defaultService) Postpone(
	record *domain.ProgressRecord,
	days int,
	now time.Time,
) (*domain.ProgressRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if days < 1 {
		return nil, ErrInvalidPostpone
	}

	next := record.Clone()
	next.DueDate = record.DueDate.AddDate(0, 0, days)
	if next.DueDate.Before(now) {
		next.DueDate = now.AddDate(0, 0, days)
	}

	return next, nil
}
