package progression

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/events"
	"github.com/topiklearn/srs-api/internal/platform/memory"
)

type testEnv struct {
	service       Service
	statsStore    *memory.UserStatsStore
	progressStore *memory.ProgressStore
	sessionStore  *memory.SessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	statsStore := memory.NewUserStatsStore()
	progressStore := memory.NewProgressStore()
	sessionStore := memory.NewSessionStore()

	service := NewService(statsStore, progressStore, sessionStore, memory.NewTransactor(), nil)

	return &testEnv{
		service:       service,
		statsStore:    statsStore,
		progressStore: progressStore,
		sessionStore:  sessionStore,
	}
}

func (e *testEnv) seedProgress(t *testing.T, correct, wrong int) {
	t.Helper()

	record, err := domain.NewProgressRecord(uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	record.CorrectAnswers = correct
	record.WrongAnswers = wrong
	require.NoError(t, e.progressStore.Upsert(context.Background(), record))
}

func reviewEvent(grade domain.ReviewGrade, at time.Time, duration time.Duration) *events.Event {
	return events.NewReviewRecorded(domain.ReviewEvent{
		VocabID:   uuid.New(),
		Grade:     grade,
		Timestamp: at,
		Duration:  duration,
	})
}

func TestHandleEvent_ReviewUpdatesStats(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	env.seedProgress(t, 3, 1) // 75% accuracy across all items

	err := env.service.HandleEvent(ctx, reviewEvent(domain.GradePerfect, now, 30*time.Second))
	require.NoError(t, err)

	stats, err := env.service.Snapshot(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, stats.AverageAccuracy, 0.0001)
	assert.Equal(t, 1, stats.TotalWordsLearned)
	assert.Equal(t, domain.XPPerCorrectReview, stats.XP, "passing review earns XP")
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 30*time.Second, stats.TotalTimeSpent)
	assert.Equal(t, now, stats.LastStudied)
}

func TestHandleEvent_FailedReviewEarnsNoXP(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	err := env.service.HandleEvent(ctx,
		reviewEvent(domain.GradeIncorrect, time.Now().UTC(), 0))
	require.NoError(t, err)

	stats, err := env.service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.XP)
}

func TestHandleEvent_LevelStepsWithXP(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// 100 XP boundary: ten passing reviews reach level 2.
	for i := 0; i < 10; i++ {
		err := env.service.HandleEvent(ctx, reviewEvent(domain.GradeCorrectHesitation, now, 0))
		require.NoError(t, err)
	}

	stats, err := env.service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.XP)
	assert.Equal(t, 2, stats.Level)
}

func TestHandleEvent_IgnoresForeignEvents(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.HandleEvent(ctx, nil))
	require.NoError(t, env.service.HandleEvent(ctx, &events.Event{Type: "something.else"}))

	stats, err := env.service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, *domain.NewUserStats(), *stats)
}

func TestCloseSession_StreakTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newSession := func(t *testing.T, at time.Time) *domain.StudySession {
		t.Helper()
		session, err := domain.NewStudySession(10, 8, 2, 5*time.Minute, at)
		require.NoError(t, err)
		return session
	}

	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 20, 0, 0, 0, time.UTC)
	}

	t.Run("first session starts the streak", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(1))))

		stats, err := env.service.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 1, stats.BestStreak)
	})

	t.Run("consecutive days extend the streak", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		for d := 1; d <= 3; d++ {
			require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(d))))
		}

		stats, err := env.service.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.CurrentStreak)
		assert.Equal(t, 3, stats.BestStreak)
	})

	t.Run("second session on the same day leaves the streak", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(1))))
		require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(1).Add(2*time.Hour))))

		stats, err := env.service.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.CurrentStreak)
	})

	t.Run("skipped day restarts the streak at one", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(1))))
		require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(2))))
		require.NoError(t, env.service.CloseSession(ctx, newSession(t, day(5))))

		stats, err := env.service.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 2, stats.BestStreak, "best streak survives the reset")
	})
}

func TestCloseSession_PersistsHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	session, err := domain.NewStudySession(12, 10, 2, 8*time.Minute, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, env.service.CloseSession(ctx, session))

	sessions, err := env.service.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)
}

func TestCloseSession_InvalidSessionRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	session := &domain.StudySession{ID: uuid.New(), WordsStudied: -1, SessionDate: time.Now().UTC()}
	err := env.service.CloseSession(ctx, session)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionCounts)

	sessions, err := env.service.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRecordGame(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	result, err := domain.NewGameResult("flashcard", 80, 8, 10, 2*time.Minute, now)
	require.NoError(t, err)
	require.NoError(t, env.service.RecordGame(ctx, result))

	stats, err := env.service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGamesPlayed)
	assert.Equal(t, 2*time.Minute, stats.TotalTimeSpent)

	games, err := env.service.ListGames(ctx, "flashcard", 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, result.ID, games[0].ID)

	t.Run("filter by game type", func(t *testing.T) {
		games, err := env.service.ListGames(ctx, "quiz", 0)
		require.NoError(t, err)
		assert.Empty(t, games)
	})
}

func TestHandleEvent_ClampsMalformedInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.statsStore.Update(ctx, &domain.UserStats{
		CurrentStreak: 4, BestStreak: 4, Level: 1,
	}))

	// A negative duration must not shrink total time, and the written
	// snapshot must still satisfy the stats invariants.
	err := env.service.HandleEvent(ctx,
		reviewEvent(domain.GradePerfect, time.Now().UTC(), -time.Minute))
	require.NoError(t, err)

	stats, err := env.service.Snapshot(ctx)
	require.NoError(t, err)
	require.NoError(t, stats.Validate())
	assert.Equal(t, time.Duration(0), stats.TotalTimeSpent)
	assert.Equal(t, 4, stats.CurrentStreak, "reviews alone do not touch the streak")
}
