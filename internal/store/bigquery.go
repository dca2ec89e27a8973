package store

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/oluto/statements/internal/statement"
)

const (
	transactionsTable = "transactions"
	dateFormat        = "2006-01-02"
)

// transactionRow mirrors the <dataset>.transactions schema.
type transactionRow struct {
	TransactionID int64 `bigquery:"transaction_id"` // REQUIRED

	BusinessID string `bigquery:"business_id"` // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC

	VendorName  string              `bigquery:"vendor_name"` // REQUIRED
	Description bigquery.NullString `bigquery:"description"` // NULLABLE

	Category     bigquery.NullString  `bigquery:"category"`      // NULLABLE
	AIConfidence bigquery.NullFloat64 `bigquery:"ai_confidence"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

// BigQueryStore implements TransactionStore against a BigQuery dataset.
type BigQueryStore struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

func NewBigQueryStore(client *bigquery.Client, projectID, datasetID string) *BigQueryStore {
	return &BigQueryStore{client: client, projectID: projectID, datasetID: datasetID}
}

// InsertTransactions inserts a batch of parsed transactions into
// <dataset>.transactions.
func (s *BigQueryStore) InsertTransactions(ctx context.Context, businessID string, txs []*statement.ParsedTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	rows := buildTransactionRows(businessID, txs, time.Now().UTC())

	// Fully qualified table name to avoid project ID issues.
	table := s.client.DatasetInProject(s.projectID, s.datasetID).Table(transactionsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// buildTransactionRows maps parsed transactions onto insert rows.
// transaction_id is REQUIRED and streaming inserts have no sequence to draw
// from, so IDs are allocated from the insert timestamp in nanoseconds plus
// the row offset, keeping them unique within and across batches.
func buildTransactionRows(businessID string, txs []*statement.ParsedTransaction, now time.Time) []*transactionRow {
	baseID := now.UnixNano()
	rows := make([]*transactionRow, 0, len(txs))
	for i, tx := range txs {
		row := &transactionRow{
			TransactionID:   baseID + int64(i),
			BusinessID:      businessID,
			TransactionDate: civil.DateOf(tx.Date),
			Amount:          tx.Amount.Rat(),
			VendorName:      tx.VendorName,
			CreatedTS:       now,
		}
		if tx.Description != nil {
			row.Description = bigquery.NullString{StringVal: *tx.Description, Valid: true}
		}
		if tx.Category != "" {
			row.Category = bigquery.NullString{StringVal: tx.Category, Valid: true}
			row.AIConfidence = bigquery.NullFloat64{Float64: tx.AIConfidence, Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// QueryByDateRange returns the stored transactions for a business within the
// inclusive date range, ordered by date.
func (s *BigQueryStore) QueryByDateRange(ctx context.Context, businessID string, start, end time.Time) ([]statement.ExistingTransaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			t.transaction_id,
			t.transaction_date,
			t.amount,
			t.vendor_name
		FROM %s.%s t
		WHERE t.business_id = @business_id
		  AND t.transaction_date >= @start_date
		  AND t.transaction_date <= @end_date
		ORDER BY t.transaction_date, t.transaction_id
	`, s.datasetID, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "business_id", Value: businessID},
		{Name: "start_date", Value: start.Format(dateFormat)},
		{Name: "end_date", Value: end.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryByDateRange: query read: %w", err)
	}

	var out []statement.ExistingTransaction
	for {
		var r struct {
			TransactionID   int64      `bigquery:"transaction_id"`
			TransactionDate civil.Date `bigquery:"transaction_date"`
			Amount          *big.Rat   `bigquery:"amount"`
			VendorName      string     `bigquery:"vendor_name"`
		}
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryByDateRange: iter next: %w", err)
		}
		out = append(out, statement.ExistingTransaction{
			ID:         r.TransactionID,
			Date:       r.TransactionDate.In(time.UTC),
			Amount:     decimal.NewFromBigRat(r.Amount, 2),
			VendorName: r.VendorName,
		})
	}
	return out, nil
}
