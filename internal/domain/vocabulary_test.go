package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVocabularyItem(t *testing.T) {
	t.Parallel()

	t.Run("valid item", func(t *testing.T) {
		t.Parallel()

		item, err := NewVocabularyItem("  사과 ", " apple ", []string{"Food", "food", " fruit "})
		require.NoError(t, err)

		assert.Equal(t, "사과", item.Headword)
		assert.Equal(t, "apple", item.Gloss)
		assert.Equal(t, []string{"food", "fruit"}, item.Tags, "tags are lowercased and de-duplicated")
		assert.False(t, item.AddedAt.IsZero())
	})

	t.Run("empty headword rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewVocabularyItem("   ", "apple", nil)
		assert.ErrorIs(t, err, ErrEmptyHeadword)
	})

	t.Run("empty gloss rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewVocabularyItem("사과", "", nil)
		assert.ErrorIs(t, err, ErrEmptyGloss)
	})
}

func TestVocabularyItemHasTag(t *testing.T) {
	t.Parallel()

	item, err := NewVocabularyItem("사과", "apple", []string{"food", "topik-1"})
	require.NoError(t, err)

	assert.True(t, item.HasTag("food"))
	assert.True(t, item.HasTag(" FOOD "), "tag matching is case-insensitive")
	assert.True(t, item.HasTag("topik-1"))
	assert.False(t, item.HasTag("verb"))
}
