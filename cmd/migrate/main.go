// Command migrate bootstraps the BigQuery dataset and tables the statements
// service writes to. It is idempotent: existing datasets and tables are left
// untouched, so it is safe to run on every deploy.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

var (
	projectID = flag.String("project", "", "GCP project ID (required)")
	datasetID = flag.String("dataset", "oluto", "BigQuery dataset ID")
	location  = flag.String("location", "US", "Dataset location for new datasets")
)

var transactionsSchema = bigquery.Schema{
	{Name: "transaction_id", Type: bigquery.IntegerFieldType, Required: true},
	{Name: "business_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "transaction_date", Type: bigquery.DateFieldType, Required: true},
	{Name: "amount", Type: bigquery.NumericFieldType, Required: true},
	{Name: "vendor_name", Type: bigquery.StringFieldType, Required: true},
	{Name: "description", Type: bigquery.StringFieldType},
	{Name: "category", Type: bigquery.StringFieldType},
	{Name: "ai_confidence", Type: bigquery.FloatFieldType},
	{Name: "created_ts", Type: bigquery.TimestampFieldType, Required: true},
}

func main() {
	flag.Parse()

	if *projectID == "" {
		log.Fatal("Error: -project flag is required. Please specify your GCP project ID.")
	}

	ctx := context.Background()

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	log.Printf("Connected to BigQuery project: %s, dataset: %s", *projectID, *datasetID)

	dataset := client.Dataset(*datasetID)
	if err := ensureDataset(ctx, dataset); err != nil {
		log.Fatalf("Failed to ensure dataset: %v", err)
	}

	if err := ensureTable(ctx, dataset.Table("transactions"), transactionsSchema); err != nil {
		log.Fatalf("Failed to ensure transactions table: %v", err)
	}

	log.Println("Schema is up to date.")
}

func ensureDataset(ctx context.Context, dataset *bigquery.Dataset) error {
	if _, err := dataset.Metadata(ctx); err == nil {
		log.Printf("  [SKIP] dataset %s (already exists)", dataset.DatasetID)
		return nil
	} else if !isNotFound(err) {
		return err
	}

	log.Printf("  [CREATE] dataset %s", dataset.DatasetID)
	return dataset.Create(ctx, &bigquery.DatasetMetadata{Location: *location})
}

func ensureTable(ctx context.Context, table *bigquery.Table, schema bigquery.Schema) error {
	if _, err := table.Metadata(ctx); err == nil {
		log.Printf("  [SKIP] table %s (already exists)", table.TableID)
		return nil
	} else if !isNotFound(err) {
		return err
	}

	log.Printf("  [CREATE] table %s", table.TableID)
	return table.Create(ctx, &bigquery.TableMetadata{Schema: schema})
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
