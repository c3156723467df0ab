package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// statsRowID is the fixed key of the singleton stats and settings rows.
// The single-tenant context is explicit in the store rather than hidden in
// a global "current user".
const statsRowID = "main"

// UserStatsStore implements store.UserStatsStore on PostgreSQL.
type UserStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStatsStore creates a PostgreSQL-backed stats store.
func NewUserStatsStore(db store.DBTX, logger *slog.Logger) *UserStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_stats_store")),
	}
}

// Ensure UserStatsStore implements store.UserStatsStore
var _ store.UserStatsStore = (*UserStatsStore)(nil)

const statsColumns = `total_words_learned, current_streak, best_streak, total_games_played,
	average_accuracy, total_time_spent_ms, level, xp, last_studied`

func scanStats(row interface{ Scan(...any) error }) (*domain.UserStats, error) {
	var (
		stats       domain.UserStats
		timeSpentMS int64
		lastStudied sql.NullTime
	)

	err := row.Scan(
		&stats.TotalWordsLearned,
		&stats.CurrentStreak,
		&stats.BestStreak,
		&stats.TotalGamesPlayed,
		&stats.AverageAccuracy,
		&timeSpentMS,
		&stats.Level,
		&stats.XP,
		&lastStudied,
	)
	if err != nil {
		return nil, err
	}

	stats.TotalTimeSpent = time.Duration(timeSpentMS) * time.Millisecond
	if lastStudied.Valid {
		stats.LastStudied = lastStudied.Time
	}

	return &stats, nil
}

// ensureRow seeds the singleton row if it does not exist yet.
func (s *UserStatsStore) ensureRow(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (id, level)
		VALUES ($1, 1)
		ON CONFLICT (id) DO NOTHING
	`, statsRowID)
	if err != nil {
		return mapError("user_stats", "ensure_row", err)
	}
	return nil
}

// Get implements store.UserStatsStore.Get.
func (s *UserStatsStore) Get(ctx context.Context) (*domain.UserStats, error) {
	return s.get(ctx, "get", "")
}

// GetForUpdate implements store.UserStatsStore.GetForUpdate. The FOR UPDATE
// lock on the singleton row serializes all stats writers.
func (s *UserStatsStore) GetForUpdate(ctx context.Context) (*domain.UserStats, error) {
	return s.get(ctx, "get_for_update", " FOR UPDATE")
}

func (s *UserStatsStore) get(ctx context.Context, operation, lock string) (*domain.UserStats, error) {
	if err := s.ensureRow(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM user_stats WHERE id = $1%s`, statsColumns, lock)

	stats, err := scanStats(s.db.QueryRowContext(ctx, query, statsRowID))
	if err != nil {
		return nil, mapError("user_stats", operation, err)
	}

	return stats, nil
}

// Update implements store.UserStatsStore.Update.
func (s *UserStatsStore) Update(ctx context.Context, stats *domain.UserStats) error {
	if err := stats.Validate(); err != nil {
		return store.NewError("user_stats", "update",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	var lastStudied sql.NullTime
	if !stats.LastStudied.IsZero() {
		lastStudied = sql.NullTime{Time: stats.LastStudied, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE user_stats SET
			total_words_learned = $2,
			current_streak = $3,
			best_streak = $4,
			total_games_played = $5,
			average_accuracy = $6,
			total_time_spent_ms = $7,
			level = $8,
			xp = $9,
			last_studied = $10
		WHERE id = $1
	`,
		statsRowID,
		stats.TotalWordsLearned,
		stats.CurrentStreak,
		stats.BestStreak,
		stats.TotalGamesPlayed,
		stats.AverageAccuracy,
		stats.TotalTimeSpent.Milliseconds(),
		stats.Level,
		stats.XP,
		lastStudied,
	)
	if err != nil {
		return mapError("user_stats", "update", err)
	}

	return nil
}

// WithTx implements store.UserStatsStore.WithTx.
func (s *UserStatsStore) WithTx(tx *sql.Tx) store.UserStatsStore {
	return &UserStatsStore{db: tx, logger: s.logger}
}

// UserSettingsStore implements store.UserSettingsStore on PostgreSQL.
type UserSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserSettingsStore creates a PostgreSQL-backed settings store.
func NewUserSettingsStore(db store.DBTX, logger *slog.Logger) *UserSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_settings_store")),
	}
}

// Ensure UserSettingsStore implements store.UserSettingsStore
var _ store.UserSettingsStore = (*UserSettingsStore)(nil)

// Get implements store.UserSettingsStore.Get.
func (s *UserSettingsStore) Get(ctx context.Context) (*domain.UserSettings, error) {
	defaults := domain.DefaultUserSettings()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (id, theme, audio_enabled, audio_rate, audio_pitch, autoplay, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, statsRowID, defaults.Theme, defaults.AudioEnabled, defaults.AudioRate,
		defaults.AudioPitch, defaults.Autoplay, defaults.Language)
	if err != nil {
		return nil, mapError("user_settings", "get", err)
	}

	var settings domain.UserSettings
	err = s.db.QueryRowContext(ctx, `
		SELECT theme, audio_enabled, audio_rate, audio_pitch, autoplay, language
		FROM user_settings WHERE id = $1
	`, statsRowID).Scan(
		&settings.Theme,
		&settings.AudioEnabled,
		&settings.AudioRate,
		&settings.AudioPitch,
		&settings.Autoplay,
		&settings.Language,
	)
	if err != nil {
		return nil, mapError("user_settings", "get", err)
	}

	return &settings, nil
}

// Update implements store.UserSettingsStore.Update.
func (s *UserSettingsStore) Update(ctx context.Context, settings *domain.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return store.NewError("user_settings", "update",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (id, theme, audio_enabled, audio_rate, audio_pitch, autoplay, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			theme = EXCLUDED.theme,
			audio_enabled = EXCLUDED.audio_enabled,
			audio_rate = EXCLUDED.audio_rate,
			audio_pitch = EXCLUDED.audio_pitch,
			autoplay = EXCLUDED.autoplay,
			language = EXCLUDED.language
	`, statsRowID, settings.Theme, settings.AudioEnabled, settings.AudioRate,
		settings.AudioPitch, settings.Autoplay, settings.Language)
	if err != nil {
		return mapError("user_settings", "update", err)
	}

	return nil
}
