// Package store persists imported transactions and serves the lookups the
// duplicate checker needs.
package store

import (
	"context"
	"time"

	"github.com/oluto/statements/internal/statement"
)

// TransactionStore is the persistence surface the import pipeline depends
// on. The BigQuery implementation backs production; MemoryStore backs tests
// and local development.
type TransactionStore interface {
	// InsertTransactions writes a batch of parsed transactions for a business.
	InsertTransactions(ctx context.Context, businessID string, txs []*statement.ParsedTransaction) error

	// QueryByDateRange returns the stored transactions for a business whose
	// date falls within [start, end], inclusive.
	QueryByDateRange(ctx context.Context, businessID string, start, end time.Time) ([]statement.ExistingTransaction, error)
}
