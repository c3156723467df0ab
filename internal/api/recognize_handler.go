package api

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/topiklearn/srs-api/internal/api/shared"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/recognizer"
)

// RecognizeHandler handles handwriting-recognition HTTP requests
type RecognizeHandler struct {
	recognizer recognizer.Recognizer
	logger     *slog.Logger
}

// NewRecognizeHandler creates a new RecognizeHandler
func NewRecognizeHandler(rec recognizer.Recognizer, log *slog.Logger) *RecognizeHandler {
	if rec == nil {
		panic("recognizer cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil for RecognizeHandler")
	}

	return &RecognizeHandler{
		recognizer: rec,
		logger:     log.With(slog.String("component", "recognize_handler")),
	}
}

// RecognizeRequest represents the request body for handwriting recognition
type RecognizeRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	Expected    string `json:"expected"`
}

// Recognize handles POST /recognize requests
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RecognizeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid image encoding")
		return
	}

	result, err := h.recognizer.Recognize(r.Context(), image, req.Expected)
	if err != nil {
		if errors.Is(err, recognizer.ErrEmptyInput) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Recognition input is empty")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Recognition failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
