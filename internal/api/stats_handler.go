package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/topiklearn/srs-api/internal/api/shared"
	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/service/progression"
	"github.com/topiklearn/srs-api/internal/store"
)

// StatsResponse represents the learner statistics snapshot
type StatsResponse struct {
	TotalWordsLearned int        `json:"total_words_learned"`
	CurrentStreak     int        `json:"current_streak"`
	BestStreak        int        `json:"best_streak"`
	TotalGamesPlayed  int        `json:"total_games_played"`
	AverageAccuracy   float64    `json:"average_accuracy"`
	TotalTimeSpentMs  int64      `json:"total_time_spent_ms"`
	Level             int        `json:"level"`
	XP                int        `json:"xp"`
	LastStudied       *time.Time `json:"last_studied,omitempty"`
}

// StatsHandler handles stats, session, game, and settings HTTP requests
type StatsHandler struct {
	progressionService progression.Service
	settingsStore      store.UserSettingsStore
	logger             *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(
	progressionService progression.Service,
	settingsStore store.UserSettingsStore,
	log *slog.Logger,
) *StatsHandler {
	if progressionService == nil {
		panic("progressionService cannot be nil")
	}
	if settingsStore == nil {
		panic("settingsStore cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil for StatsHandler")
	}

	return &StatsHandler{
		progressionService: progressionService,
		settingsStore:      settingsStore,
		logger:             log.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /stats requests
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.progressionService.Snapshot(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to load statistics", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}

// CreateSessionRequest represents the request body for closing a session
type CreateSessionRequest struct {
	WordsStudied int   `json:"words_studied" validate:"min=0"`
	CorrectCount int   `json:"correct_count" validate:"min=0"`
	WrongCount   int   `json:"wrong_count"   validate:"min=0"`
	DurationMs   int64 `json:"duration_ms"   validate:"min=0"`
}

// SessionResponse represents one recorded study session
type SessionResponse struct {
	ID           string    `json:"id"`
	WordsStudied int       `json:"words_studied"`
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
	DurationMs   int64     `json:"duration_ms"`
	SessionDate  time.Time `json:"session_date"`
}

// CreateSession handles POST /sessions requests. This is the explicit
// session boundary that advances the daily streak.
func (h *StatsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, err := domain.NewStudySession(
		req.WordsStudied,
		req.CorrectCount,
		req.WrongCount,
		time.Duration(req.DurationMs)*time.Millisecond,
		time.Now().UTC(),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid session data", err)
		return
	}

	if err := h.progressionService.CloseSession(r.Context(), session); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to record session", err)
		return
	}

	log.Debug("session recorded", slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// ListSessions handles GET /sessions requests
func (h *StatsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimitParam(w, r)
	if !ok {
		return
	}

	sessions, err := h.progressionService.ListSessions(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to load sessions", err)
		return
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, sessionToResponse(s))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// CreateGameRequest represents the request body for recording a game
type CreateGameRequest struct {
	GameType       string `json:"game_type"       validate:"required"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers" validate:"min=0"`
	TotalQuestions int    `json:"total_questions" validate:"min=0"`
	TimeSpentMs    int64  `json:"time_spent_ms"   validate:"min=0"`
}

// GameResponse represents one recorded game result
type GameResponse struct {
	ID             string    `json:"id"`
	GameType       string    `json:"game_type"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TimeSpentMs    int64     `json:"time_spent_ms"`
	PlayedAt       time.Time `json:"played_at"`
}

// CreateGame handles POST /games requests
func (h *StatsHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateGameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := domain.NewGameResult(
		req.GameType,
		req.Score,
		req.CorrectAnswers,
		req.TotalQuestions,
		time.Duration(req.TimeSpentMs)*time.Millisecond,
		time.Now().UTC(),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid game data", err)
		return
	}

	if err := h.progressionService.RecordGame(r.Context(), result); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to record game", err)
		return
	}

	log.Debug("game recorded",
		slog.String("game_id", result.ID.String()),
		slog.String("game_type", result.GameType))
	shared.RespondWithJSON(w, r, http.StatusCreated, gameToResponse(result))
}

// ListGames handles GET /games requests, optionally filtered by ?type=
func (h *StatsHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimitParam(w, r)
	if !ok {
		return
	}

	games, err := h.progressionService.ListGames(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to load games", err)
		return
	}

	responses := make([]GameResponse, 0, len(games))
	for _, g := range games {
		responses = append(responses, gameToResponse(g))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetSettings handles GET /settings requests
func (h *StatsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.Get(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to load settings", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// UpdateSettings handles PUT /settings requests
func (h *StatsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var settings domain.UserSettings
	if err := shared.DecodeJSON(r, &settings); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := settings.Validate(); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	if err := h.settingsStore.Update(r.Context(), &settings); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to save settings", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// parseLimitParam extracts the optional limit query parameter, writing a
// 400 response and returning ok=false when it is malformed.
func parseLimitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
		return 0, false
	}

	return limit, true
}

// statsToResponse converts a domain.UserStats to a StatsResponse
func statsToResponse(stats *domain.UserStats) StatsResponse {
	resp := StatsResponse{
		TotalWordsLearned: stats.TotalWordsLearned,
		CurrentStreak:     stats.CurrentStreak,
		BestStreak:        stats.BestStreak,
		TotalGamesPlayed:  stats.TotalGamesPlayed,
		AverageAccuracy:   stats.AverageAccuracy,
		TotalTimeSpentMs:  stats.TotalTimeSpent.Milliseconds(),
		Level:             stats.Level,
		XP:                stats.XP,
	}

	if !stats.LastStudied.IsZero() {
		last := stats.LastStudied
		resp.LastStudied = &last
	}

	return resp
}

// sessionToResponse converts a domain.StudySession to a SessionResponse
func sessionToResponse(s *domain.StudySession) SessionResponse {
	return SessionResponse{
		ID:           s.ID.String(),
		WordsStudied: s.WordsStudied,
		CorrectCount: s.CorrectCount,
		WrongCount:   s.WrongCount,
		DurationMs:   s.Duration.Milliseconds(),
		SessionDate:  s.SessionDate,
	}
}

// gameToResponse converts a domain.GameResult to a GameResponse
func gameToResponse(g *domain.GameResult) GameResponse {
	return GameResponse{
		ID:             g.ID.String(),
		GameType:       g.GameType,
		Score:          g.Score,
		CorrectAnswers: g.CorrectAnswers,
		TotalQuestions: g.TotalQuestions,
		TimeSpentMs:    g.TimeSpent.Milliseconds(),
		PlayedAt:       g.PlayedAt,
	}
}
