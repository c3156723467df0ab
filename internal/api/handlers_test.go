package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/domain/srs"
	"github.com/topiklearn/srs-api/internal/platform/memory"
	"github.com/topiklearn/srs-api/internal/service/catalog"
	"github.com/topiklearn/srs-api/internal/service/review"
)

// newTestRouter wires the vocabulary and review handlers onto in-memory
// stores, mirroring the production route layout.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	vocabStore := memory.NewVocabularyStore()
	progressStore := memory.NewProgressStore()

	catalogService := catalog.NewService(vocabStore, log)
	reviewService := review.NewService(
		vocabStore, progressStore, memory.NewTransactor(), srs.NewService(), nil, log)

	vocabHandler := NewVocabularyHandler(catalogService, log)
	reviewHandler := NewReviewHandler(reviewService, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/vocabulary", vocabHandler.CreateVocabulary)
		r.Get("/vocabulary", vocabHandler.ListVocabulary)
		r.Get("/vocabulary/{id}", vocabHandler.GetVocabulary)
		r.Put("/vocabulary/{id}", vocabHandler.UpdateVocabulary)
		r.Delete("/vocabulary/{id}", vocabHandler.DeleteVocabulary)
		r.Get("/review/due", reviewHandler.DueItems)
		r.Get("/review/next", reviewHandler.NextDue)
		r.Post("/vocabulary/{id}/review", reviewHandler.SubmitReview)
		r.Post("/vocabulary/{id}/postpone", reviewHandler.Postpone)
		r.Get("/vocabulary/{id}/progress", reviewHandler.GetProgress)
	})

	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createItem(t *testing.T, router chi.Router, headword, gloss string) VocabularyResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/vocabulary", CreateVocabularyRequest{
		Headword: headword,
		Gloss:    gloss,
		Tags:     []string{"test"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return decodeBody[VocabularyResponse](t, rec)
}

func TestCreateVocabulary(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	t.Run("valid item", func(t *testing.T) {
		item := createItem(t, router, "사과", "apple")
		assert.Equal(t, "사과", item.Headword)
		assert.Equal(t, "apple", item.Gloss)
		assert.NotEmpty(t, item.ID)
	})

	t.Run("missing gloss", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/vocabulary",
			CreateVocabularyRequest{Headword: "사과"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/vocabulary",
			bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetVocabulary(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	created := createItem(t, router, "물", "water")

	t.Run("existing item", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/vocabulary/"+created.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[VocabularyResponse](t, rec)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown item", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/vocabulary/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/vocabulary/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListVocabulary(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	createItem(t, router, "사과", "apple")
	createItem(t, router, "바나나", "banana")

	t.Run("all items", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/vocabulary", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]VocabularyResponse](t, rec), 2)
	})

	t.Run("search by gloss", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/vocabulary?q=banana", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		items := decodeBody[[]VocabularyResponse](t, rec)
		require.Len(t, items, 1)
		assert.Equal(t, "바나나", items[0].Headword)
	})

	t.Run("filter by tag", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/vocabulary?tag=test", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]VocabularyResponse](t, rec), 2)
	})
}

func TestDeleteVocabulary(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	created := createItem(t, router, "책", "book")

	rec := doJSON(t, router, http.MethodDelete, "/api/vocabulary/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/vocabulary/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReviewEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	created := createItem(t, router, "학교", "school")
	reviewPath := fmt.Sprintf("/api/vocabulary/%s/review", created.ID)

	grade := func(g int) SubmitReviewRequest { return SubmitReviewRequest{Grade: &g} }

	t.Run("explicit grade", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, reviewPath, grade(5))
		require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

		progress := decodeBody[ProgressResponse](t, rec)
		assert.Equal(t, 1, progress.Repetitions)
		assert.Equal(t, 1, progress.IntervalDays)
		assert.InDelta(t, 2.6, progress.EaseFactor, 0.0001)
	})

	t.Run("binary correct flag maps onto the grade scale", func(t *testing.T) {
		correct := false
		rec := doJSON(t, router, http.MethodPost, reviewPath, SubmitReviewRequest{Correct: &correct})
		require.Equal(t, http.StatusOK, rec.Code)

		// An incorrect answer is a lapse: repetitions reset, wrong count up.
		progress := decodeBody[ProgressResponse](t, rec)
		assert.Equal(t, 0, progress.Repetitions)
		assert.Equal(t, 1, progress.WrongAnswers)
	})

	t.Run("neither grade nor correct", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, reviewPath, SubmitReviewRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("grade out of range", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, reviewPath, grade(6))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/vocabulary/%s/review", uuid.NewString()), grade(4))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNextDueEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	t.Run("empty queue responds no content", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/review/next", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestDueItemsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	t.Run("empty queue", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/review/due", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody[[]DueItemResponse](t, rec))
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/review/due?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostponeEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	created := createItem(t, router, "시간", "time")
	postponePath := fmt.Sprintf("/api/vocabulary/%s/postpone", created.ID)

	t.Run("never reviewed", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, postponePath, PostponeRequest{Days: 3})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reviewed item", func(t *testing.T) {
		g := 5
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/vocabulary/%s/review", created.ID), SubmitReviewRequest{Grade: &g})
		require.Equal(t, http.StatusOK, rec.Code)
		before := decodeBody[ProgressResponse](t, rec)

		rec = doJSON(t, router, http.MethodPost, postponePath, PostponeRequest{Days: 3})
		require.Equal(t, http.StatusOK, rec.Code)

		after := decodeBody[ProgressResponse](t, rec)
		assert.True(t, after.DueDate.After(before.DueDate))
	})

	t.Run("zero days rejected by validation", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, postponePath, PostponeRequest{Days: 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProgressEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	created := createItem(t, router, "친구", "friend")

	t.Run("never reviewed", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			fmt.Sprintf("/api/vocabulary/%s/progress", created.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("after a review", func(t *testing.T) {
		g := 4
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/vocabulary/%s/review", created.ID), SubmitReviewRequest{Grade: &g})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet,
			fmt.Sprintf("/api/vocabulary/%s/progress", created.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		progress := decodeBody[ProgressResponse](t, rec)
		assert.Equal(t, created.ID, progress.VocabID)
		assert.Equal(t, 1, progress.CorrectAnswers)
	})
}
