package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/oluto/statements/internal/gcsuploader"
	"github.com/oluto/statements/internal/importer"
	"github.com/oluto/statements/internal/logger"
	"github.com/oluto/statements/internal/statement"
)

func main() {
	log := logger.New("statements-cli", "info")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		runParse(log)
	case "extract":
		runExtract(log)
	case "upload":
		runUpload(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statements CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  parse     Parse a local CSV statement and print the result")
	fmt.Println("  extract   Run transaction extraction over a saved OCR text file")
	fmt.Println("  upload    Upload a PDF statement to GCS")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runParse(log zerolog.Logger) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local CSV statement")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	content, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	result, err := importer.ParseCSV(content, filepath.Base(*filePath))
	if err != nil {
		log.Fatal().Err(err).Msg("Parse failed")
	}

	printJSON(log, result)
}

// runExtract replays the OCR extraction step over text saved from a previous
// OCR run, which is the quickest way to debug a statement layout the
// strategies mishandle.
func runExtract(log zerolog.Logger) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a file holding raw OCR text")
	pdfName := fs.String("pdf-name", "", "Original PDF filename, used for year inference")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}
	if *pdfName == "" {
		*pdfName = filepath.Base(*filePath)
	}

	content, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	transactions, period, accountInfo, warnings := importer.ExtractFromOCRText(string(content), *pdfName)

	printJSON(log, &statement.ParseResult{
		FileType:        statement.FileTypePDF,
		FileName:        *pdfName,
		StatementPeriod: period,
		AccountInfo:     accountInfo,
		Transactions:    transactions,
		TotalCount:      len(transactions),
		Warnings:        warnings,
	})
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucket := fs.String("bucket", "", "GCS bucket name")
	businessID := fs.String("business-id", "", "Business the statement belongs to")
	filePath := fs.String("file", "", "Path to a local PDF statement")
	fs.Parse(os.Args[2:])

	if *bucket == "" || *businessID == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -business-id ID -file PATH")
	}

	content, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create GCS client")
	}
	defer client.Close()

	uploader := gcsuploader.NewService(client, *bucket)
	uri, err := uploader.UploadStatement(ctx, *businessID, filepath.Base(*filePath), content)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *filePath, uri)
}

func printJSON(log zerolog.Logger, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))
}
