package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/oluto/statements/internal/statement"
)

// ParseCSV parses a CSV bank or credit card statement into transaction
// candidates. Column roles are detected by header-name heuristics; both the
// credit-card shape (single amount column, "CR" suffix for credits) and the
// bank shape (separate debit/credit columns) are handled.
//
// Row-level problems (unparseable date or amount) skip the row and record a
// warning. The parse as a whole fails only when the schema is undetectable,
// the file has no data rows, or no transaction survives row filtering.
func ParseCSV(content []byte, filename string) (*statement.ParseResult, error) {
	var warnings []string

	text, decodeWarning := decodeStatementText(content)
	if decodeWarning != "" {
		warnings = append(warnings, decodeWarning)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: could not read CSV file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("ParseCSV: CSV file contains no data rows")
	}

	headers := records[0]
	rows := records[1:]

	layout, detectWarnings, err := detectColumns(headers)
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: %w", err)
	}
	warnings = append(warnings, detectWarnings...)

	hasDebitCredit := layout.debit >= 0 || layout.credit >= 0
	yearHint := yearFromFilename(filename)
	if yearHint == 0 {
		yearHint = time.Now().Year()
	}

	var transactions []*statement.ParsedTransaction
	rowIndex := 0

	for _, row := range rows {
		description := strings.TrimSpace(cellAt(row, layout.desc))

		if shouldSkipRow(description) {
			continue
		}

		dateStr := strings.TrimSpace(cellAt(row, layout.date))
		if dateStr == "" {
			continue
		}
		txnDate, err := ParseDate(dateStr, yearHint)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Skipped row with unparseable date: %q", dateStr))
			continue
		}

		amount, ok, amountWarning := resolveRowAmount(row, layout, hasDebitCredit)
		if amountWarning != "" {
			warnings = append(warnings, amountWarning)
			continue
		}
		if !ok {
			continue
		}

		vendorName := description
		if vendorName == "" {
			vendorName = statement.UnknownVendor
		}

		txn := &statement.ParsedTransaction{
			RowIndex:   rowIndex,
			Date:       txnDate,
			VendorName: vendorName,
			Amount:     amount,
		}
		if description != "" && description != vendorName {
			txn.Description = &description
		}
		transactions = append(transactions, txn)
		rowIndex++
	}

	if len(transactions) == 0 {
		return nil, fmt.Errorf("ParseCSV: no transactions could be extracted from the CSV file; " +
			"check that the file contains transaction data with recognizable column headers")
	}

	return &statement.ParseResult{
		FileType:     statement.FileTypeCSV,
		FileName:     filename,
		Transactions: transactions,
		TotalCount:   len(transactions),
		Warnings:     warnings,
	}, nil
}

// resolveRowAmount applies the sign convention for the detected layout.
// Single-amount files (credit cards): non-CR positive values are expenses
// and get negated; CR values and already-negative values pass through.
// Debit/credit files: debit -> negative, credit -> positive.
// ok=false with empty warning means the row has no amount and is skipped
// silently; a non-empty warning means the amount was present but invalid.
func resolveRowAmount(row []string, layout columnLayout, hasDebitCredit bool) (amount decimal.Decimal, ok bool, warning string) {
	if !hasDebitCredit {
		raw := strings.TrimSpace(cellAt(row, layout.amount))
		if raw == "" {
			return amount, false, ""
		}
		parsed, isCredit, err := CleanAmount(raw)
		if err != nil {
			return amount, false, fmt.Sprintf("Skipped row with unparseable amount: %v", err)
		}
		if !isCredit && parsed.IsPositive() {
			parsed = parsed.Neg()
		}
		return parsed, true, ""
	}

	rawDebit := strings.TrimSpace(cellAt(row, layout.debit))
	rawCredit := strings.TrimSpace(cellAt(row, layout.credit))

	parsed, ok, err := bankAmount(rawDebit, rawCredit)
	if err != nil {
		return amount, false, fmt.Sprintf("Skipped row with unparseable amount: %v", err)
	}
	if !ok {
		// No amount in either column.
		return amount, false, ""
	}
	return parsed, true, ""
}

func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

// decodeStatementText decodes statement bytes as UTF-8, falling back to
// Latin-1 with a warning for files exported by older banking software.
func decodeStatementText(content []byte) (string, string) {
	if utf8.Valid(content) {
		return string(content), ""
	}
	var b strings.Builder
	b.Grow(len(content))
	for _, c := range content {
		b.WriteRune(rune(c))
	}
	return b.String(), "File was not UTF-8 encoded; decoded as Latin-1."
}
