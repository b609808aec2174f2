// Command embedder runs the offline ingestion job: it scans the statute
// corpus for sections without an embedding, computes one per row and persists
// it. Safe to run repeatedly; rows already embedded are skipped.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/config"
	"github.com/kritsadaw/asklaw/internal/embedding"
	"github.com/kritsadaw/asklaw/internal/ingest"
	"github.com/kritsadaw/asklaw/internal/repository"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to statute store", zap.Error(err))
	}
	defer pool.Close()

	embedder, err := embedding.NewOllamaEmbedder(cfg.Embedding.Host, cfg.Embedding.Model)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}

	job := ingest.NewJob(
		repository.NewStatuteRepository(pool),
		embedder,
		cfg.Ingest.BatchSize,
		cfg.Ingest.Pause,
		logger,
	)

	logger.Info("Starting embedding job",
		zap.Int("batch_size", cfg.Ingest.BatchSize),
		zap.String("model", cfg.Embedding.Model))

	if err := job.Run(ctx); err != nil {
		logger.Fatal("Embedding job failed", zap.Error(err))
	}
}
