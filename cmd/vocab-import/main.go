// Package main implements the vocab-import CLI, which loads vocabulary
// from an Excel or CSV file into the catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/topiklearn/srs-api/internal/config"
	"github.com/topiklearn/srs-api/internal/importer"
	"github.com/topiklearn/srs-api/internal/platform/logger"
	"github.com/topiklearn/srs-api/internal/platform/postgres"
	"github.com/topiklearn/srs-api/internal/service/catalog"
)

func main() {
	filePath := flag.String("file", "", "path to the .xlsx or .csv file to import")
	sheet := flag.String("sheet", "Sheet1", "sheet name (Excel files only)")
	startRow := flag.Int("start-row", 2, "first data row, 1-based")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("the -file flag is required")
	}

	if err := run(*filePath, *sheet, *startRow); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func run(filePath, sheet string, startRow int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	ctx := context.Background()

	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			appLogger.Error("error closing database connection", "error", cerr)
		}
	}()

	if err := postgres.MigrateUp(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	vocabStore := postgres.NewVocabularyStore(db, appLogger)
	catalogService := catalog.NewService(vocabStore, appLogger)

	importCfg := importer.DefaultConfig(filePath)
	importCfg.SheetName = sheet
	importCfg.StartRow = startRow

	result, err := importer.New(catalogService, appLogger).Import(ctx, importCfg)
	if err != nil {
		return err
	}

	appLogger.Info("import finished",
		slog.Int("processed", result.TotalProcessed),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))

	return nil
}
