package main

import (
	"context"
	"flag"
	"os"

	"moodmuse-be/internal/bootstrap"
	"moodmuse-be/internal/config"
	"moodmuse-be/internal/repository/implementation"
	"moodmuse-be/pkg/database"

	"github.com/fatih/color"
)

// Loads the supportive-content corpus into the vector index. Safe to re-run:
// already-ingested chunks are skipped by content hash.
func main() {
	var (
		corpusDir     = flag.String("dir", "", "folder with evidence documents (default from CORPUS_DIR)")
		exemplarsFile = flag.String("exemplars", "", "JSON file with style/example snippets (default from CORPUS_EXEMPLARS_FILE)")
	)
	flag.Parse()

	cfg := config.Load()
	if *corpusDir == "" {
		*corpusDir = cfg.Corpus.Dir
	}
	if *exemplarsFile == "" {
		*exemplarsFile = cfg.Corpus.ExemplarsFile
	}

	color.Cyan("🚀 MoodMuse Corpus Ingestion")

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	ctx := context.Background()

	color.Yellow("\n[1/2] Ingesting evidence documents from %s", *corpusDir)
	if err := container.IngestPipeline.IngestFolder(ctx, *corpusDir); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Done")

	if _, err := os.Stat(*exemplarsFile); err == nil {
		color.Yellow("\n[2/2] Ingesting style/example snippets from %s", *exemplarsFile)
		if err := container.IngestPipeline.IngestExemplars(ctx, *exemplarsFile); err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Done")
	} else {
		color.Yellow("\n[2/2] No exemplars file at %s, skipping", *exemplarsFile)
	}

	if total, err := implementation.NewCorpusChunkRepository(gormDB).Count(ctx); err == nil {
		color.Green("\n✅ Corpus ingestion completed, %d chunks indexed", total)
	} else {
		color.Green("\n✅ Corpus ingestion completed")
	}
}
