package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/oluto/statements/internal/categorizer"
	"github.com/oluto/statements/internal/config"
	"github.com/oluto/statements/internal/gcsuploader"
	"github.com/oluto/statements/internal/importer"
	"github.com/oluto/statements/internal/jobs/inmemory"
	"github.com/oluto/statements/internal/logger"
	"github.com/oluto/statements/internal/ocr"
	"github.com/oluto/statements/internal/store"
	"github.com/oluto/statements/internal/worker"
)

// Standalone worker binary. With the in-memory queue it only processes jobs
// published in this process, so cmd/api runs the consumer itself; this
// binary exists for the queue-backed deployment (Cloud Tasks or Pub/Sub)
// where publisher and consumer are separate services.
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("statements-worker", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New("statements-worker", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var txStore store.TransactionStore
	if cfg.BQProjectID != "" {
		bqClient, err := bigquery.NewClient(ctx, cfg.BQProjectID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery client")
		}
		defer bqClient.Close()
		txStore = store.NewBigQueryStore(bqClient, cfg.BQProjectID, cfg.BQDatasetID)
	} else {
		log.Warn().Msg("No BigQuery project configured - using in-memory transaction store")
		txStore = store.NewMemoryStore()
	}

	catCfg := categorizer.Config{
		APIKey:  cfg.FuelixAPIKey,
		BaseURL: cfg.FuelixBaseURL,
		Model:   cfg.FuelixModel,
	}
	var importCategorizer importer.Categorizer
	if catCfg.Enabled() {
		importCategorizer = categorizer.New(catCfg, log)
	}

	var ocrBackend importer.OCRBackend
	switch {
	case cfg.OCRProvider == "gemini":
		ocrBackend = ocr.NewGeminiClient(cfg.GeminiModel)
	case cfg.OCRAPIKey != "" && cfg.OCRURL != "":
		ocrBackend = ocr.NewMistralClient(cfg.OCRAPIKey, cfg.OCRURL, cfg.OCRModel)
	default:
		log.Warn().Msg("No OCR service configured - import jobs will fail")
	}

	var blobs gcsuploader.BlobStore
	if cfg.GCSBucket != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer storageClient.Close()
		blobs = gcsuploader.NewService(storageClient, cfg.GCSBucket)
	}

	importService := importer.NewService(txStore, importCategorizer, ocrBackend, log)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobBuffer, cfg.JobWorkers, jobStore)

	importWorker := worker.New(importService, blobs, jobStore, log)

	if err := jobQueue.Start(ctx, importWorker.Handle); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}
