package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oluto/statements/internal/ocr"
	"github.com/oluto/statements/internal/statement"
)

// OCRBackend converts a PDF statement into machine-readable text.
type OCRBackend interface {
	Process(ctx context.Context, pdfBytes []byte) (*ocr.Response, error)
}

// Import failure classes surfaced to polling clients.
const (
	ErrTypeOCRTimeout = "ocr_timeout"
	ErrTypeOCRError   = "ocr_error"
	ErrTypeExtraction = "extraction_error"
)

// ImportError is a user-facing import failure. Message is safe to show
// directly to the uploader.
type ImportError struct {
	Type    string
	Message string
	Err     error
}

func (e *ImportError) Error() string { return e.Message }

func (e *ImportError) Unwrap() error { return e.Err }

// ProgressFunc receives milestone updates as a percentage and a
// human-readable stage description.
type ProgressFunc func(pct int, message string)

const noTransactionsWarning = "No transactions could be extracted from this statement. The format may not be supported."

// ImportPDF runs the full PDF pipeline: OCR, structural extraction,
// categorization, duplicate flagging. progress may be nil. A statement that
// OCRs cleanly but yields no transactions is a success with a warning, not
// an error.
func (s *Service) ImportPDF(ctx context.Context, businessID string, content []byte, filename string, progress ProgressFunc) (*statement.ParseResult, error) {
	report := func(pct int, msg string) {
		if progress != nil {
			progress(pct, msg)
		}
	}

	report(5, "Preparing statement")
	if s.ocr == nil {
		return nil, &ImportError{
			Type:    ErrTypeOCRError,
			Message: "PDF import is not configured on this server",
		}
	}

	report(10, "Reading statement with OCR")
	resp, err := s.ocr.Process(ctx, content)
	if err != nil {
		return nil, s.ocrFailure(filename, err)
	}

	report(50, "OCR complete")
	text, err := ocr.ExtractText(resp)
	if err != nil {
		return nil, &ImportError{
			Type:    ErrTypeExtraction,
			Message: "The OCR service returned an unreadable response. Please try again.",
			Err:     err,
		}
	}

	report(65, "Extracting transactions")
	transactions, period, accountInfo, warnings := ExtractFromOCRText(text, filename)

	result := &statement.ParseResult{
		FileType:        statement.FileTypePDF,
		FileName:        filename,
		StatementPeriod: period,
		AccountInfo:     accountInfo,
		Transactions:    transactions,
		TotalCount:      len(transactions),
		Warnings:        warnings,
	}

	if len(transactions) == 0 {
		result.Warnings = append(result.Warnings, noTransactionsWarning)
		report(100, "Import complete")
		s.log.Warn().Str("file", filename).Msg("pdf import produced no transactions")
		return result, nil
	}

	report(70, "Categorizing transactions")
	if s.categorizer != nil {
		s.categorizer.CategorizeBatch(ctx, result.Transactions)
	}
	report(80, "Categorization complete")

	report(90, "Checking for duplicates")
	if err := s.flagDuplicates(ctx, businessID, result); err != nil {
		s.log.Warn().Err(err).Str("file", filename).Msg("duplicate check failed, continuing without flags")
		result.Warnings = append(result.Warnings, "Duplicate detection was unavailable for this import")
	}

	report(100, "Import complete")
	s.log.Info().
		Str("business_id", businessID).
		Str("file", filename).
		Int("transactions", result.TotalCount).
		Int("duplicates", result.DuplicateCount).
		Msg("pdf import parsed")

	return result, nil
}

// ocrFailure maps transport-level OCR errors onto user-facing import errors.
func (s *Service) ocrFailure(filename string, err error) error {
	s.log.Error().Err(err).Str("file", filename).Msg("ocr request failed")

	if errors.Is(err, ocr.ErrTimeout) {
		return &ImportError{
			Type:    ErrTypeOCRTimeout,
			Message: "OCR service timed out. Please try again, or upload a CSV export instead.",
			Err:     err,
		}
	}

	var statusErr *ocr.StatusError
	if errors.As(err, &statusErr) {
		return &ImportError{
			Type:    ErrTypeOCRError,
			Message: fmt.Sprintf("OCR service returned an error (HTTP %d). Please try again later.", statusErr.Code),
			Err:     err,
		}
	}

	return &ImportError{
		Type:    ErrTypeOCRError,
		Message: "OCR service is unavailable. Please try again later.",
		Err:     err,
	}
}
