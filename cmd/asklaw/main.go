package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/api"
	"github.com/kritsadaw/asklaw/internal/config"
	"github.com/kritsadaw/asklaw/internal/embedding"
	"github.com/kritsadaw/asklaw/internal/llm"
	"github.com/kritsadaw/asklaw/internal/repository"
	"github.com/kritsadaw/asklaw/internal/service"
	"github.com/kritsadaw/asklaw/internal/thai"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to the statute corpus store
	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to statute store", zap.Error(err))
	}
	defer pool.Close()
	statuteRepo := repository.NewStatuteRepository(pool)

	// Optional session transcript store
	var sessionRepo *repository.SessionRepository
	var transcripts service.TranscriptStore
	if cfg.Transcripts.Enabled {
		db, err := repository.NewDB(cfg.Transcripts.Path)
		if err != nil {
			logger.Fatal("Failed to initialize transcript store", zap.Error(err))
		}
		defer db.Close()
		sessionRepo = repository.NewSessionRepository(db)
		transcripts = sessionRepo
	}

	// Shared model clients, created once and used by every request
	normalizer, err := thai.NewNormalizer()
	if err != nil {
		logger.Fatal("Failed to load segmentation dictionary", zap.Error(err))
	}

	embedder, err := embedding.NewOllamaEmbedder(cfg.Embedding.Host, cfg.Embedding.Model)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}

	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to create llm client", zap.Error(err))
	}

	// Assemble the pipeline
	rewriter := service.NewRewriter(llmClient, cfg.Retrieval.HistoryWindow, logger)
	retriever := service.NewRetriever(embedder, statuteRepo,
		cfg.Retrieval.MatchThreshold, cfg.Retrieval.MatchCount, logger)
	answerer := service.NewAnswerer(llmClient, logger)

	chatService := service.NewChatService(normalizer, rewriter, retriever, answerer, transcripts, logger)

	// Setup router
	router := api.SetupRouter(chatService, sessionRepo, logger, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server. WriteTimeout stays unset: streamed answers run
	// longer than any fixed write window.
	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting AskLaw server", zap.String("address", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
