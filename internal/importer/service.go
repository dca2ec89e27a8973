package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oluto/statements/internal/statement"
)

// TransactionSource is the slice of the transaction store the duplicate
// check reads from.
type TransactionSource interface {
	QueryByDateRange(ctx context.Context, businessID string, start, end time.Time) ([]statement.ExistingTransaction, error)
}

// Categorizer assigns expense categories to a batch of parsed transactions
// in place. Implementations must degrade gracefully rather than fail.
type Categorizer interface {
	CategorizeBatch(ctx context.Context, txs []*statement.ParsedTransaction)
}

// Service orchestrates statement imports: parse, categorize, then flag
// duplicates against previously stored transactions.
type Service struct {
	store       TransactionSource
	categorizer Categorizer
	ocr         OCRBackend
	log         zerolog.Logger
}

func NewService(store TransactionSource, categorizer Categorizer, ocr OCRBackend, log zerolog.Logger) *Service {
	return &Service{
		store:       store,
		categorizer: categorizer,
		ocr:         ocr,
		log:         log.With().Str("component", "importer").Logger(),
	}
}

// ImportCSV parses a CSV statement inline and returns the reviewed-ready
// result. Categorization and duplicate-flagging failures downgrade to
// warnings; only an unparseable file is an error.
func (s *Service) ImportCSV(ctx context.Context, businessID string, content []byte, filename string) (*statement.ParseResult, error) {
	result, err := ParseCSV(content, filename)
	if err != nil {
		return nil, fmt.Errorf("ImportCSV: %w", err)
	}

	if s.categorizer != nil {
		s.categorizer.CategorizeBatch(ctx, result.Transactions)
	}

	if err := s.flagDuplicates(ctx, businessID, result); err != nil {
		s.log.Warn().Err(err).Str("file", filename).Msg("duplicate check failed, continuing without flags")
		result.Warnings = append(result.Warnings, "Duplicate detection was unavailable for this import")
	}

	s.log.Info().
		Str("business_id", businessID).
		Str("file", filename).
		Int("transactions", result.TotalCount).
		Int("duplicates", result.DuplicateCount).
		Msg("csv import parsed")

	return result, nil
}

// flagDuplicates loads the stored transactions covering the parsed date
// range and marks re-imports in place, then refreshes DuplicateCount.
func (s *Service) flagDuplicates(ctx context.Context, businessID string, result *statement.ParseResult) error {
	if s.store == nil || len(result.Transactions) == 0 {
		return nil
	}

	start, end := dateBounds(result.Transactions)
	existing, err := s.store.QueryByDateRange(ctx, businessID, start, end)
	if err != nil {
		return fmt.Errorf("flagDuplicates: %w", err)
	}

	MarkDuplicates(result.Transactions, existing)

	count := 0
	for _, tx := range result.Transactions {
		if tx.IsDuplicate {
			count++
		}
	}
	result.DuplicateCount = count
	return nil
}

func dateBounds(txs []*statement.ParsedTransaction) (start, end time.Time) {
	start, end = txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Date.After(end) {
			end = tx.Date
		}
	}
	return start, end
}
