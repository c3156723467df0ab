package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/topiklearn/srs-api/internal/api/shared"
	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/service/review"
)

// ProgressResponse represents the scheduling state of one item
type ProgressResponse struct {
	VocabID        string     `json:"vocab_id"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	DueDate        time.Time  `json:"due_date"`
	CorrectAnswers int        `json:"correct_answers"`
	WrongAnswers   int        `json:"wrong_answers"`
	LastStudied    *time.Time `json:"last_studied,omitempty"`
}

// DueItemResponse pairs an item with its scheduling state
type DueItemResponse struct {
	Item     VocabularyResponse `json:"item"`
	Progress ProgressResponse   `json:"progress"`
}

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.Service, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// SubmitReviewRequest represents the request body for grading one review.
// Either a 0-5 grade or a binary correct flag must be provided; the flag
// maps onto the grade scale for clients without fine-grained grading.
type SubmitReviewRequest struct {
	Grade      *int  `json:"grade"    validate:"omitempty,min=0,max=5"`
	Correct    *bool `json:"correct"`
	DurationMs int64 `json:"duration_ms" validate:"omitempty,min=0"`
}

// SubmitReview handles POST /vocabulary/{id}/review requests
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("vocab_id", id.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	var grade domain.ReviewGrade
	switch {
	case req.Grade != nil:
		grade = domain.ReviewGrade(*req.Grade)
	case req.Correct != nil:
		grade = domain.GradeFromCorrect(*req.Correct)
	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Either grade or correct is required")
		return
	}

	record, err := h.reviewService.SubmitReview(r.Context(), id, review.Submission{
		Grade:    grade,
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review recorded",
		slog.String("vocab_id", id.String()),
		slog.Int("grade", int(grade)))
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(record))
}

// DueItems handles GET /review/due requests. The limit query parameter
// caps the queue size; omitted or 0 means unbounded.
func (h *ReviewHandler) DueItems(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	items, err := h.reviewService.DueItems(r.Context(), time.Now().UTC(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]DueItemResponse, 0, len(items))
	for _, due := range items {
		responses = append(responses, DueItemResponse{
			Item:     vocabularyToResponse(due.Item),
			Progress: progressToResponse(due.Progress),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// NextDue handles GET /review/next requests. Responds 204 when nothing
// is due.
func (h *ReviewHandler) NextDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.reviewService.NextDue(r.Context(), time.Now().UTC())
	if errors.Is(err, review.ErrNoItemsDue) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueItemResponse{
		Item:     vocabularyToResponse(due.Item),
		Progress: progressToResponse(due.Progress),
	})
}

// GetProgress handles GET /vocabulary/{id}/progress requests
func (h *ReviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	record, err := h.reviewService.GetProgress(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(record))
}

// PostponeRequest represents the request body for pushing a due date out
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// Postpone handles POST /vocabulary/{id}/postpone requests
func (h *ReviewHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("vocab_id", id.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	record, err := h.reviewService.Postpone(r.Context(), id, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(record))
}

// progressToResponse converts a domain.ProgressRecord to a ProgressResponse
func progressToResponse(record *domain.ProgressRecord) ProgressResponse {
	resp := ProgressResponse{
		VocabID:        record.VocabID.String(),
		EaseFactor:     record.EaseFactor,
		IntervalDays:   record.IntervalDays,
		Repetitions:    record.Repetitions,
		DueDate:        record.DueDate,
		CorrectAnswers: record.CorrectAnswers,
		WrongAnswers:   record.WrongAnswers,
	}

	if !record.LastStudied.IsZero() {
		last := record.LastStudied
		resp.LastStudied = &last
	}

	return resp
}
