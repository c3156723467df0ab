package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/platform/memory"
	"github.com/topiklearn/srs-api/internal/service/catalog"
)

func newTestImporter(t *testing.T) (*Importer, catalog.Service) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogService := catalog.NewService(memory.NewVocabularyStore(), log)
	return New(catalogService, log), catalogService
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vocab.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	importer, catalogService := newTestImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "headword,gloss,tags\n"+
		"사과,apple,\"food,fruit\"\n"+
		"물,water,\n"+
		",missing headword,\n"+
		"학교,school,topik-1\n")

	result, err := importer.Import(ctx, DefaultConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed, "header row excluded by start row")
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	items, err := catalogService.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	tagged, err := catalogService.FindByTag(ctx, "fruit")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "사과", tagged[0].Headword)
}

func TestImportCSVWithoutTagColumn(t *testing.T) {
	t.Parallel()

	importer, catalogService := newTestImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "사과,apple,ignored\n")

	cfg := DefaultConfig(path)
	cfg.StartRow = 1
	cfg.TagsColumn = -1

	result, err := importer.Import(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	items, err := catalogService.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Tags)
}

func TestImportUnsupportedFormat(t *testing.T) {
	t.Parallel()

	importer, _ := newTestImporter(t)

	_, err := importer.Import(context.Background(), DefaultConfig("words.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportMissingFile(t *testing.T) {
	t.Parallel()

	importer, _ := newTestImporter(t)

	_, err := importer.Import(context.Background(),
		DefaultConfig(filepath.Join(t.TempDir(), "absent.csv")))
	assert.Error(t, err)
}
