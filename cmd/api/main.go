package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/oluto/statements/internal/api/handlers"
	"github.com/oluto/statements/internal/api/middleware"
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

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("statements-api", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New("statements-api", cfg.LogLevel)

	ctx := context.Background()

	// Transaction store: BigQuery in production, in-memory for local runs.
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

	// Categorization is optional; imports proceed uncategorized without it.
	catCfg := categorizer.Config{
		APIKey:  cfg.FuelixAPIKey,
		BaseURL: cfg.FuelixBaseURL,
		Model:   cfg.FuelixModel,
	}
	var importCategorizer importer.Categorizer
	var suggester handlers.CategorySuggester
	if catCfg.Enabled() {
		c := categorizer.New(catCfg, log)
		importCategorizer = c
		suggester = c
	} else {
		log.Warn().Msg("No categorization API key configured - transactions will not be categorized")
	}

	// OCR is optional; without it only CSV import is available.
	var ocrBackend importer.OCRBackend
	switch {
	case cfg.OCRProvider == "gemini":
		ocrBackend = ocr.NewGeminiClient(cfg.GeminiModel)
	case cfg.OCRAPIKey != "" && cfg.OCRURL != "":
		ocrBackend = ocr.NewMistralClient(cfg.OCRAPIKey, cfg.OCRURL, cfg.OCRModel)
	default:
		log.Warn().Msg("No OCR service configured - PDF import will be disabled")
	}

	// GCS holds uploaded PDFs between the API request and the worker.
	var blobs gcsuploader.BlobStore
	if cfg.GCSBucket != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer storageClient.Close()
		blobs = gcsuploader.NewService(storageClient, cfg.GCSBucket)
	} else {
		log.Warn().Msg("No GCS bucket configured - PDF import will be disabled")
	}

	importService := importer.NewService(txStore, importCategorizer, ocrBackend, log)

	// Job infrastructure. The in-memory queue means the consumer must run
	// in-process with the API.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobBuffer, cfg.JobWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	importWorker := worker.New(importService, blobs, jobStore, log)
	go func() {
		log.Info().Msg("Starting import job consumer")
		if err := jobQueue.Start(workerCtx, importWorker.Handle); err != nil {
			log.Error().Err(err).Msg("Job consumer stopped with error")
		}
	}()

	// Initialize handlers
	importHandler := handlers.NewImportHandler(importService, blobs, jobQueue, suggester, txStore, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/import/parse", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importHandler.ParseCSV(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/import/parse-pdf", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importHandler.ParsePDF(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/import/confirm", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importHandler.ConfirmImport(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/suggest-category", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importHandler.SuggestCategory(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		// Inline CSV imports call the categorization model before
		// responding, so the write timeout is generous.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight imports
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
