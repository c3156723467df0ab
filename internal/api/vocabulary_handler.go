// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/api/shared"
	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/service/catalog"
)

// VocabularyResponse represents the response data for a vocabulary item
type VocabularyResponse struct {
	ID       string    `json:"id"`
	Headword string    `json:"headword"`
	Gloss    string    `json:"gloss"`
	Tags     []string  `json:"tags"`
	AddedAt  time.Time `json:"added_at"`
}

// VocabularyHandler handles catalog-related HTTP requests
type VocabularyHandler struct {
	catalogService catalog.Service
	logger         *slog.Logger
}

// NewVocabularyHandler creates a new VocabularyHandler
func NewVocabularyHandler(catalogService catalog.Service, log *slog.Logger) *VocabularyHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil for VocabularyHandler")
	}

	return &VocabularyHandler{
		catalogService: catalogService,
		logger:         log.With(slog.String("component", "vocabulary_handler")),
	}
}

// CreateVocabularyRequest represents the request body for adding an item
type CreateVocabularyRequest struct {
	Headword string   `json:"headword" validate:"required"`
	Gloss    string   `json:"gloss"    validate:"required"`
	Tags     []string `json:"tags"`
}

// CreateVocabulary handles POST /vocabulary requests
func (h *VocabularyHandler) CreateVocabulary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateVocabularyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.catalogService.Add(r.Context(), req.Headword, req.Gloss, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("created vocabulary item", slog.String("vocab_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, vocabularyToResponse(item))
}

// ListVocabulary handles GET /vocabulary requests. The q query parameter
// searches headword and gloss; the tag parameter filters by tag.
func (h *VocabularyHandler) ListVocabulary(w http.ResponseWriter, r *http.Request) {
	var (
		items []*domain.VocabularyItem
		err   error
	)

	switch {
	case r.URL.Query().Get("tag") != "":
		items, err = h.catalogService.FindByTag(r.Context(), r.URL.Query().Get("tag"))
	case r.URL.Query().Get("q") != "":
		items, err = h.catalogService.Search(r.Context(), r.URL.Query().Get("q"))
	default:
		items, err = h.catalogService.List(r.Context())
	}

	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]VocabularyResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, vocabularyToResponse(item))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetVocabulary handles GET /vocabulary/{id} requests
func (h *VocabularyHandler) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	item, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, vocabularyToResponse(item))
}

// UpdateVocabulary handles PUT /vocabulary/{id} requests. The update is a
// full replace of the item's content.
func (h *VocabularyHandler) UpdateVocabulary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req CreateVocabularyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	existing, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	updated := &domain.VocabularyItem{
		ID:       id,
		Headword: req.Headword,
		Gloss:    req.Gloss,
		Tags:     req.Tags,
		AddedAt:  existing.AddedAt,
	}

	if err := h.catalogService.Update(r.Context(), updated); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, vocabularyToResponse(updated))
}

// DeleteVocabulary handles DELETE /vocabulary/{id} requests
func (h *VocabularyHandler) DeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam extracts and parses the {id} URL parameter, writing a 400
// response and returning ok=false when it is missing or malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return uuid.Nil, false
	}

	return id, true
}

// vocabularyToResponse converts a domain.VocabularyItem to a VocabularyResponse
func vocabularyToResponse(item *domain.VocabularyItem) VocabularyResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	return VocabularyResponse{
		ID:       item.ID.String(),
		Headword: item.Headword,
		Gloss:    item.Gloss,
		Tags:     tags,
		AddedAt:  item.AddedAt,
	}
}
