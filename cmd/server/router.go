package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/topiklearn/srs-api/internal/api"
	apiMiddleware "github.com/topiklearn/srs-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	vocabularyHandler := api.NewVocabularyHandler(app.catalogService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	statsHandler := api.NewStatsHandler(app.progressionService, app.settingsStore, app.logger)
	recognizeHandler := api.NewRecognizeHandler(app.recognizer, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Post("/vocabulary", vocabularyHandler.CreateVocabulary)
		r.Get("/vocabulary", vocabularyHandler.ListVocabulary)
		r.Get("/vocabulary/{id}", vocabularyHandler.GetVocabulary)
		r.Put("/vocabulary/{id}", vocabularyHandler.UpdateVocabulary)
		r.Delete("/vocabulary/{id}", vocabularyHandler.DeleteVocabulary)

		// Review endpoints
		r.Get("/review/due", reviewHandler.DueItems)
		r.Get("/review/next", reviewHandler.NextDue)
		r.Post("/vocabulary/{id}/review", reviewHandler.SubmitReview)
		r.Post("/vocabulary/{id}/postpone", reviewHandler.Postpone)
		r.Get("/vocabulary/{id}/progress", reviewHandler.GetProgress)

		// Stats, session, and game endpoints
		r.Get("/stats", statsHandler.GetStats)
		r.Post("/sessions", statsHandler.CreateSession)
		r.Get("/sessions", statsHandler.ListSessions)
		r.Post("/games", statsHandler.CreateGame)
		r.Get("/games", statsHandler.ListGames)

		// Settings endpoints
		r.Get("/settings", statsHandler.GetSettings)
		r.Put("/settings", statsHandler.UpdateSettings)

		// Handwriting recognition
		r.Post("/recognize", recognizeHandler.Recognize)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
