package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/store"
)

// UserStatsStore implements store.UserStatsStore on a mutex-guarded
// singleton value.
type UserStatsStore struct {
	mu    sync.RWMutex
	stats domain.UserStats
}

// NewUserStatsStore creates an in-memory stats store seeded with zero progress.
func NewUserStatsStore() *UserStatsStore {
	return &UserStatsStore{stats: *domain.NewUserStats()}
}

// Ensure UserStatsStore implements store.UserStatsStore
var _ store.UserStatsStore = (*UserStatsStore)(nil)

// Get implements store.UserStatsStore.Get.
func (s *UserStatsStore) Get(ctx context.Context) (*domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats.Clone(), nil
}

// GetForUpdate implements store.UserStatsStore.GetForUpdate. Serialization
// is provided by the memory Transactor's lock.
func (s *UserStatsStore) GetForUpdate(ctx context.Context) (*domain.UserStats, error) {
	return s.Get(ctx)
}

// Update implements store.UserStatsStore.Update.
func (s *UserStatsStore) Update(ctx context.Context, stats *domain.UserStats) error {
	if err := stats.Validate(); err != nil {
		return store.NewError("user_stats", "update",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = *stats.Clone()
	return nil
}

// WithTx implements store.UserStatsStore.WithTx.
func (s *UserStatsStore) WithTx(tx *sql.Tx) store.UserStatsStore {
	return s
}

// UserSettingsStore implements store.UserSettingsStore on a mutex-guarded
// singleton value.
type UserSettingsStore struct {
	mu       sync.RWMutex
	settings domain.UserSettings
}

// NewUserSettingsStore creates an in-memory settings store seeded with defaults.
func NewUserSettingsStore() *UserSettingsStore {
	return &UserSettingsStore{settings: *domain.DefaultUserSettings()}
}

// Ensure UserSettingsStore implements store.UserSettingsStore
var _ store.UserSettingsStore = (*UserSettingsStore)(nil)

// Get implements store.UserSettingsStore.Get.
func (s *UserSettingsStore) Get(ctx context.Context) (*domain.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.settings
	return &c, nil
}

// Update implements store.UserSettingsStore.Update.
func (s *UserSettingsStore) Update(ctx context.Context, settings *domain.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return store.NewError("user_settings", "update",
			fmt.Errorf("%w: %w", store.ErrConstraintViolation, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = *settings
	return nil
}
