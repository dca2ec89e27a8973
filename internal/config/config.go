// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the API and worker binaries need. Optional
// integrations (OCR, categorization, GCS) degrade gracefully when their
// settings are absent; only storage settings are required in production.
type Config struct {
	// Port is the API listen port.
	Port string

	// LogLevel is a zerolog level name.
	LogLevel string

	// BQProjectID and BQDatasetID locate the transactions dataset. Empty
	// values switch the service to the in-memory store for local runs.
	BQProjectID string
	BQDatasetID string

	// GCSBucket receives uploaded PDF statements. Empty disables PDF import.
	GCSBucket string

	// OCRProvider selects the OCR backend: "mistral" (default) or "gemini".
	OCRProvider string

	// OCRAPIKey, OCRURL and OCRModel configure the Mistral OCR deployment.
	OCRAPIKey string
	OCRURL    string
	OCRModel  string

	// GeminiModel overrides the Gemini vision model when OCRProvider is
	// "gemini". The Gemini client authenticates via GOOGLE_API_KEY or
	// Application Default Credentials.
	GeminiModel string

	// FuelixAPIKey, FuelixBaseURL and FuelixModel configure the
	// OpenAI-compatible categorization endpoint. An empty key disables
	// categorization.
	FuelixAPIKey  string
	FuelixBaseURL string
	FuelixModel   string

	// JobBuffer and JobWorkers size the in-memory import queue.
	JobBuffer  int
	JobWorkers int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BQProjectID: os.Getenv("BQ_PROJECT_ID"),
		BQDatasetID: getEnv("BQ_DATASET_ID", "oluto"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		OCRProvider: getEnv("OCR_PROVIDER", "mistral"),
		OCRAPIKey:   os.Getenv("AZURE_API_KEY"),
		OCRURL:      os.Getenv("AZURE_OCR_URL"),
		OCRModel:    getEnv("AZURE_OCR_MODEL", "mistral-document-ai-2505"),
		GeminiModel: os.Getenv("GEMINI_OCR_MODEL"),

		FuelixAPIKey:  os.Getenv("FUELIX_API_KEY"),
		FuelixBaseURL: getEnv("FUELIX_BASE_URL", "https://api.fuelix.ai/v1"),
		FuelixModel:   getEnv("FUELIX_MODEL", "claude-haiku-4-5"),
	}

	var err error
	if cfg.JobBuffer, err = getEnvInt("JOB_BUFFER", 100); err != nil {
		return nil, err
	}
	if cfg.JobWorkers, err = getEnvInt("JOB_WORKERS", 5); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}
