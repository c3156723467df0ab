package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/topiklearn/srs-api/internal/domain/srs"
	"github.com/topiklearn/srs-api/internal/service/catalog"
	"github.com/topiklearn/srs-api/internal/service/review"
	"github.com/topiklearn/srs-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based on
// the error type. This prevents leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, review.ErrUnknownItem),
		errors.Is(err, review.ErrNeverReviewed),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, store.ErrVocabularyNotFound),
		errors.Is(err, store.ErrProgressNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, review.ErrInvalidGrade),
		errors.Is(err, srs.ErrInvalidPostpone):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, review.ErrNoItemsDue):
		return http.StatusNoContent

	// Persistence unavailable: retryable by the caller
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error. ErrConstraintViolation lands here on
	// purpose: the scheduler producing an invalid record is a bug, not a
	// client mistake.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message based on
// the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review.ErrUnknownItem),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, store.ErrVocabularyNotFound):
		return "Vocabulary item not found"

	case errors.Is(err, review.ErrNeverReviewed),
		errors.Is(err, store.ErrProgressNotFound):
		return "Item has not been reviewed yet"

	case errors.Is(err, store.ErrDuplicate):
		return "Item already exists"

	case errors.Is(err, review.ErrInvalidGrade):
		return "Invalid review grade"

	case errors.Is(err, srs.ErrInvalidPostpone):
		return "Postpone days must be at least 1"

	case errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable, please retry"

	default:
		var svcErr *review.ServiceError
		if errors.As(err, &svcErr) {
			switch svcErr.Operation {
			case "submit_review":
				return "Failed to record review"
			case "due_items":
				return "Failed to load review queue"
			}
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-friendly
// message without echoing submitted values back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'ReviewRequest.Grade' Error:Field validation for 'Grade' failed on the 'max' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "value too small"
	case "max":
		return "value too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
