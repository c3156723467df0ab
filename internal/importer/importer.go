// Package importer loads vocabulary from spreadsheet files into the
// catalog. Excel (.xlsx) and CSV layouts share the same column mapping:
// headword, gloss, and an optional comma-separated tag list.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/topiklearn/srs-api/internal/domain"
	"github.com/topiklearn/srs-api/internal/service/catalog"
)

// ErrUnsupportedFormat indicates the file extension is neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported import file format")

// Config defines how rows map onto vocabulary fields.
type Config struct {
	FilePath       string
	HeadwordColumn int // 0-based column index
	GlossColumn    int
	TagsColumn     int    // Comma-separated tags; -1 disables
	SheetName      string // Excel only
	StartRow       int    // 1-based first data row
}

// DefaultConfig returns the standard three-column layout with a header row.
func DefaultConfig(filePath string) Config {
	return Config{
		FilePath:       filePath,
		HeadwordColumn: 0,
		GlossColumn:    1,
		TagsColumn:     2,
		SheetName:      "Sheet1",
		StartRow:       2,
	}
}

// Result summarizes one import run.
type Result struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Importer reads vocabulary files into the catalog.
type Importer struct {
	catalogService catalog.Service
	logger         *slog.Logger
}

// New creates an Importer.
func New(catalogService catalog.Service, log *slog.Logger) *Importer {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Importer{
		catalogService: catalogService,
		logger:         log.With(slog.String("component", "importer")),
	}
}

// Import loads the file named by cfg, dispatching on its extension.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		return im.importCSV(ctx, cfg)
	case ".xlsx":
		return im.importExcel(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg.FilePath)
	}
}

func (im *Importer) importExcel(ctx context.Context, cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			im.logger.Warn("failed to close Excel file", slog.String("error", cerr.Error()))
		}
	}()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", cfg.SheetName, err)
	}

	result := &Result{}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow {
			continue
		}

		im.processRow(ctx, cfg, row, rowNum, result)
	}

	return result, im.flushErrors(result)
}

func (im *Importer) importCSV(ctx context.Context, cfg Config) (*Result, error) {
	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			im.logger.Warn("failed to close CSV file", slog.String("error", cerr.Error()))
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &Result{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < cfg.StartRow {
			continue
		}

		im.processRow(ctx, cfg, row, rowNum, result)
	}

	return result, im.flushErrors(result)
}

// processRow turns one spreadsheet row into a catalog item. Malformed rows
// are recorded in the result and skipped rather than aborting the run.
func (im *Importer) processRow(ctx context.Context, cfg Config, row []string, rowNum int, result *Result) {
	result.TotalProcessed++

	headword := cellAt(row, cfg.HeadwordColumn)
	gloss := cellAt(row, cfg.GlossColumn)

	if headword == "" || gloss == "" {
		result.Skipped++
		return
	}

	var tags []string
	if cfg.TagsColumn >= 0 {
		if raw := cellAt(row, cfg.TagsColumn); raw != "" {
			tags = strings.Split(raw, ",")
		}
	}

	item, err := domain.NewVocabularyItem(headword, gloss, tags)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}

	if err := im.catalogService.AddMultiple(ctx, []*domain.VocabularyItem{item}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}

	result.Created++
	im.logger.Debug("imported vocabulary item",
		slog.Int("row", rowNum),
		slog.String("headword", item.Headword))
}

// flushErrors reports row errors through the logger; the run itself still
// succeeds so one bad row cannot block a bulk import.
func (im *Importer) flushErrors(result *Result) error {
	for _, msg := range result.Errors {
		im.logger.Warn("import row failed", slog.String("detail", msg))
	}
	return nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
