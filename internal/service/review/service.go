// Package review orchestrates the review workflow: fetching due items,
// applying the scheduler to a submitted grade inside a transaction, and
// emitting events for the stats aggregator.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
)

// Submission carries one graded recall attempt for a vocabulary item.
type Submission struct {
	Grade    domain.ReviewGrade `json:"grade"`
	Duration time.Duration      `json:"-"`
}

// DueItem pairs a vocabulary item with its scheduling state for review
// queue responses.
type DueItem struct {
	Item     *domain.VocabularyItem `json:"item"`
	Progress *domain.ProgressRecord `json:"progress"`
}

// Service provides the review workflow for vocabulary items.
type Service interface {
	// SubmitReview records one graded review for a vocabulary item and
	// returns the updated scheduling state.
	//
	// The item's progress record is read, advanced by the scheduler, and
	// written back within a single transaction, so concurrent reviews of
	// the same item serialize and the later one observes the earlier
	// one's result. Items that have never been reviewed are seeded with a
	// fresh record first.
	//
	// Returns ErrUnknownItem if no vocabulary item with the given ID
	// exists, and ErrInvalidGrade if the grade is outside 0..5. In both
	// cases no state is modified.
	SubmitReview(
		ctx context.Context,
		vocabID uuid.UUID,
		submission Submission,
	) (*domain.ProgressRecord, error)

	// DueItems returns items whose due date has arrived, most overdue
	// first. A limit of 0 means unbounded. Items never reviewed are not
	// due; they enter the schedule on their first submitted review.
	DueItems(ctx context.Context, now time.Time, limit int) ([]*DueItem, error)

	// NextDue returns the single most overdue item, or ErrNoItemsDue if
	// nothing is due.
	NextDue(ctx context.Context, now time.Time) (*DueItem, error)

	// GetProgress returns the scheduling state for one item. Returns
	// ErrNeverReviewed if the item has no progress record yet.
	GetProgress(ctx context.Context, vocabID uuid.UUID) (*domain.ProgressRecord, error)

	// Postpone pushes an item's due date forward by the given number of
	// days without recording a review.
	Postpone(ctx context.Context, vocabID uuid.UUID, days int) (*domain.ProgressRecord, error)
}

// Common error types for the review service
var (
	// ErrUnknownItem indicates the vocabulary item does not exist.
	ErrUnknownItem = errors.New("vocabulary item not found")

	// ErrInvalidGrade indicates the submitted grade is outside 0..5.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrNoItemsDue indicates that no items are due for review.
	ErrNoItemsDue = errors.New("no items due for review")

	// ErrNeverReviewed indicates the item exists but has no scheduling
	// state yet.
	ErrNeverReviewed = errors.New("item has never been reviewed")
)

// ServiceError wraps errors from the review service with the operation
// that failed, so callers can differentiate with errors.As instead of
// string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_review", Message: message, Err: err}
}

// NewDueItemsError returns a ServiceError for the due_items operation.
func NewDueItemsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "due_items", Message: message, Err: err}
}
