package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicsense/internal/audit"
	"civicsense/internal/config"
	"civicsense/internal/gemini"
	"civicsense/internal/handler"
	"civicsense/internal/metrics"
	"civicsense/internal/ml_client"
	"civicsense/internal/processor"
	"civicsense/internal/repository"
	"civicsense/internal/server"
	"civicsense/internal/source"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting CivicSense backend...")

	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize Gemini client
	if cfg.Gemini.APIKey == "" || cfg.Gemini.APIKey == "YOUR_API_KEY_HERE" {
		logger.Fatal("Gemini API key not configured. Please set it in configs/config.yml or environment variable")
	}

	geminiClient, err := gemini.NewClient(gemini.Config{
		APIKey:                 cfg.Gemini.APIKey,
		ModelName:              cfg.Gemini.ModelName,
		MaxRetries:             cfg.Gemini.MaxRetries,
		RetryDelay:             cfg.RetryDelay(),
		TranslationTemperature: cfg.Gemini.TranslationTemp,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}
	defer geminiClient.Close()

	// Initialize ML service client
	mlClient := ml_client.NewClient(cfg.MLService.URL)

	// Initialize repository
	feedbackRepo := repository.NewFeedbackRepository(db, logger)

	// Initialize processor and auditor
	proc := processor.NewProcessor(feedbackRepo, geminiClient, logger,
		cfg.Processing.BatchSize, cfg.Processing.FetchLimit)

	auditor := audit.NewAuditor(feedbackRepo, mlClient, geminiClient, mlClient, logger,
		cfg.Audit.MismatchPreview, cfg.Audit.SamplesPerLanguage)

	history, err := audit.NewHistory(cfg.Audit.HistoryPath, logger)
	if err != nil {
		logger.Fatal("Failed to initialize audit history", zap.Error(err))
	}
	defer history.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Initialize HTTP handlers
	handlers := server.Handlers{
		Ingest:     handler.NewIngestHandler(feedbackRepo, source.NewRedditFetcher(), logger, cfg.Ingestion.MaxComments),
		Processing: handler.NewProcessingHandler(proc, logger),
		Manage:     handler.NewManageHandler(feedbackRepo, logger),
		Audit:      handler.NewAuditHandler(auditor, history, cfg.Audit.TrackedLanguages, logger),
		Analytics:  handler.NewAnalyticsHandler(feedbackRepo, logger),
	}

	srv := server.NewServer(handlers, registry, logger).HTTPServer(fmt.Sprintf(":%s", cfg.Server.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("CivicSense backend is running",
		zap.String("port", cfg.Server.Port),
		zap.String("model", cfg.Gemini.ModelName))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
