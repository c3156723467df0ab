package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/platform/memory"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewService(memory.NewVocabularyStore(), nil)
}

func TestAdd(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	ctx := context.Background()

	t.Run("valid item", func(t *testing.T) {
		item, err := service.Add(ctx, "사과", "apple", []string{"food"})
		require.NoError(t, err)

		got, err := service.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "사과", got.Headword)
		assert.Equal(t, []string{"food"}, got.Tags)
	})

	t.Run("empty headword", func(t *testing.T) {
		_, err := service.Add(ctx, "  ", "apple", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyHeadword)
	})
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	_, err := service.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	ctx := context.Background()

	_, err := service.Add(ctx, "사과", "apple", nil)
	require.NoError(t, err)
	_, err = service.Add(ctx, "물", "water", nil)
	require.NoError(t, err)

	t.Run("matches gloss case-insensitively", func(t *testing.T) {
		items, err := service.Search(ctx, "APPLE")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "사과", items[0].Headword)
	})

	t.Run("matches headword", func(t *testing.T) {
		items, err := service.Search(ctx, "물")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("empty query lists everything", func(t *testing.T) {
		items, err := service.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("no matches", func(t *testing.T) {
		items, err := service.Search(ctx, "zebra")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	ctx := context.Background()

	item, err := service.Add(ctx, "사과", "apple", nil)
	require.NoError(t, err)

	t.Run("replaces content", func(t *testing.T) {
		item.Gloss = "apple (fruit)"
		require.NoError(t, service.Update(ctx, item))

		got, err := service.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "apple (fruit)", got.Gloss)
	})

	t.Run("unknown item", func(t *testing.T) {
		ghost := *item
		ghost.ID = uuid.New()
		assert.ErrorIs(t, service.Update(ctx, &ghost), ErrItemNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	ctx := context.Background()

	item, err := service.Add(ctx, "사과", "apple", nil)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, item.ID))

	_, err = service.Get(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	assert.ErrorIs(t, service.Delete(ctx, item.ID), ErrItemNotFound)
}
