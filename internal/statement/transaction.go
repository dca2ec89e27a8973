package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileType identifies the kind of statement an import came from.
type FileType string

const (
	FileTypeCSV FileType = "csv"
	FileTypePDF FileType = "pdf"
)

// UnknownVendor is the placeholder vendor name used when a statement row
// carries no usable description.
const UnknownVendor = "Unknown"

// ParsedTransaction is a single transaction extracted from an import file.
// It is a transient candidate awaiting user review and confirmation; it is
// never persisted directly.
type ParsedTransaction struct {
	// RowIndex is the zero-based extraction order within one parse call.
	RowIndex int `json:"row_index"`

	// Date is the transaction date, truncated to a calendar day.
	Date time.Time `json:"transaction_date"`

	// VendorName is the merchant or payee. Never empty; defaults to
	// UnknownVendor when the statement row has no description.
	VendorName string `json:"vendor_name"`

	// Amount is the signed exact amount. Negative = expense/outflow,
	// positive = income/inflow.
	Amount decimal.Decimal `json:"amount"`

	// Description carries extra detail when it differs from VendorName.
	Description *string `json:"description,omitempty"`

	// Category is set by the AI categorizer and is always a member of the
	// CRA taxonomy when non-empty.
	Category string `json:"category,omitempty"`

	// AIConfidence is the categorizer's confidence in [0, 1].
	AIConfidence float64 `json:"ai_confidence"`

	IsDuplicate            bool   `json:"is_duplicate"`
	DuplicateTransactionID *int64 `json:"duplicate_transaction_id,omitempty"`
}

// ExistingTransaction is a persisted transaction used as duplicate-matching
// input. The date may still carry a time component from the datastore.
type ExistingTransaction struct {
	ID         int64
	Date       time.Time
	Amount     decimal.Decimal
	VendorName string
}

// ParseResult is the outcome of parsing one statement file.
type ParseResult struct {
	FileType        FileType             `json:"file_type"`
	FileName        string               `json:"file_name"`
	StatementPeriod string               `json:"statement_period,omitempty"`
	AccountInfo     string               `json:"account_info,omitempty"`
	Transactions    []*ParsedTransaction `json:"transactions"`
	TotalCount      int                  `json:"total_count"`
	DuplicateCount  int                  `json:"duplicate_count"`
	Warnings        []string             `json:"parse_warnings"`
}

// CategorySuggestion is an AI category hint for a single transaction.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}
