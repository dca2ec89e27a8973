package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oluto/statements/internal/statement"
)

// docClass is the statement-type classification of one OCR document,
// detected from keyword presence. Both flags can be set; credit-card
// handling takes precedence where they conflict.
type docClass struct {
	creditCard bool
	bank       bool
}

var creditCardKeywords = []string{"mastercard", "visa", "credit card", "cashback"}
var bankKeywords = []string{"business banking", "chequing", "savings account"}

func classifyStatement(ocrText string) docClass {
	lowered := strings.ToLower(ocrText)
	var dc docClass
	for _, kw := range creditCardKeywords {
		if strings.Contains(lowered, kw) {
			dc.creditCard = true
			break
		}
	}
	for _, kw := range bankKeywords {
		if strings.Contains(lowered, kw) {
			dc.bank = true
			break
		}
	}
	return dc
}

// ocrStrategy recovers transaction rows from OCR text. Strategies share
// one contract so the extractor can try them in priority order and stop at
// the first one that yields any rows.
type ocrStrategy func(ocrText string, yearHint int, dc docClass) ([]*statement.ParsedTransaction, []string)

// ExtractFromOCRText parses OCR text into transaction candidates plus
// statement metadata. Three strategies run in priority order (markup
// tables, then month-anchored line patterns, then pipe-delimited rows)
// and the first non-empty result wins for the whole document. The
// year-span correction runs once on the winning list.
func ExtractFromOCRText(ocrText, filename string) (transactions []*statement.ParsedTransaction, period, accountInfo string, warnings []string) {
	dc := classifyStatement(ocrText)
	period, accountInfo = extractStatementMetadata(ocrText, dc)

	yearHint := yearFromFilename(filename)
	if yearHint == 0 {
		yearHint = time.Now().Year()
	}

	strategies := []ocrStrategy{
		extractMarkupTableRows,
		extractPatternLines,
		extractDelimitedRows,
	}
	for _, strategy := range strategies {
		rows, strategyWarnings := strategy(ocrText, yearHint, dc)
		warnings = append(warnings, strategyWarnings...)
		if len(rows) > 0 {
			transactions = rows
			break
		}
	}

	FixYearSpanningDates(transactions)
	return transactions, period, accountInfo, warnings
}

// --- Metadata ---

func extractStatementMetadata(ocrText string, dc docClass) (period, accountInfo string) {
	if m := periodPattern.FindStringSubmatch(ocrText); m != nil {
		period = strings.TrimSpace(m[1])
	}
	if period == "" {
		if m := periodEndingPattern.FindStringSubmatch(ocrText); m != nil {
			period = "Ending " + strings.TrimSpace(m[1])
		}
	}

	switch {
	case dc.creditCard:
		if m := cardAccountPattern.FindStringSubmatch(ocrText); m != nil {
			accountInfo = strings.TrimSpace(m[1])
		}
	case dc.bank:
		if m := bankAccountPattern.FindStringSubmatch(ocrText); m != nil {
			accountInfo = strings.TrimSpace(m[1])
		}
	}
	return period, accountInfo
}

// --- Strategy 1: markup tables ---

// extractMarkupTableRows handles OCR output that preserves table structure
// as HTML-style row/cell markup. Header rows are skipped and inline
// entities cleaned before the cells are mapped to date/description/amount
// roles per statement type.
func extractMarkupTableRows(ocrText string, yearHint int, dc docClass) ([]*statement.ParsedTransaction, []string) {
	var transactions []*statement.ParsedTransaction
	var warnings []string

	rowIndex := 0
	for _, rowMatch := range tableRowPattern.FindAllStringSubmatch(ocrText, -1) {
		rowHTML := rowMatch[1]
		if strings.Contains(rowHTML, "<th>") || strings.Contains(rowHTML, "<th ") {
			continue
		}

		var cells []string
		for _, cellMatch := range tableCellPattern.FindAllStringSubmatch(rowHTML, -1) {
			cells = append(cells, cleanCellEntities(cellMatch[1]))
		}
		if len(cells) < 3 {
			continue
		}
		if shouldSkipRow(strings.Join(cells, " ")) {
			continue
		}

		var parsed *statement.ParsedTransaction

		switch {
		case dc.creditCard && len(cells) >= 3:
			// Shapes seen in practice:
			//   4 cells: TRANS DATE | POSTING DATE | DESCRIPTION | AMOUNT
			//   3 cells: "TRANS DATE POSTING DATE" | DESCRIPTION | AMOUNT
			// The first cell may also carry two merged dates
			// ("Dec. 26 Dec. 29"); only the first one is the transaction date.
			firstCell := cells[0]
			amountStr := cells[len(cells)-1]

			dateStr := firstCell
			if m := mergedDatePattern.FindStringSubmatch(firstCell); m != nil {
				dateStr = m[1]
			}

			var description string
			switch len(cells) {
			case 3:
				description = cells[1]
			case 4:
				description = cells[2]
			default:
				description = strings.Join(cells[1:len(cells)-1], " ")
			}

			txnDate, dateErr := ParseDate(dateStr, yearHint)
			amount, isCR, amountErr := CleanAmount(amountStr)
			if dateErr != nil || amountErr != nil {
				warnings = append(warnings, fmt.Sprintf("Skipped table row (credit card): %v", firstErr(dateErr, amountErr)))
				break
			}
			if !isCR && amount.IsPositive() {
				amount = amount.Neg()
			}
			parsed = &statement.ParsedTransaction{
				RowIndex:   rowIndex,
				Date:       txnDate,
				VendorName: strings.TrimSpace(description),
				Amount:     amount,
			}

		case dc.bank && len(cells) >= 4:
			// Bank: Date | Description | Debited | Credited | Balance.
			// Without the balance column there is no way to tell debit from
			// credit, so 4-cell rows fall through unmatched.
			var debitStr, creditStr string
			if len(cells) >= 5 {
				debitStr = cells[2]
				creditStr = cells[3]
			}

			txnDate, dateErr := ParseDate(cells[0], yearHint)
			if dateErr != nil {
				warnings = append(warnings, fmt.Sprintf("Skipped table row (bank): %v", dateErr))
				break
			}

			amount, ok, amountErr := bankAmount(debitStr, creditStr)
			if amountErr != nil {
				warnings = append(warnings, fmt.Sprintf("Skipped table row (bank): %v", amountErr))
				break
			}
			if !ok {
				break
			}
			parsed = &statement.ParsedTransaction{
				RowIndex:   rowIndex,
				Date:       txnDate,
				VendorName: strings.TrimSpace(cells[1]),
				Amount:     amount,
			}

		default:
			// Generic shape: first cell is the date, last cell the amount,
			// middle cells joined form the description.
			txnDate, dateErr := ParseDate(cells[0], yearHint)
			amount, isCR, amountErr := CleanAmount(cells[len(cells)-1])
			if dateErr != nil || amountErr != nil {
				break
			}
			description := strings.TrimSpace(strings.Join(cells[1:len(cells)-1], " "))
			if description == "" {
				description = statement.UnknownVendor
			}
			if !isCR && dc.creditCard && amount.IsPositive() {
				amount = amount.Neg()
			}
			parsed = &statement.ParsedTransaction{
				RowIndex:   rowIndex,
				Date:       txnDate,
				VendorName: description,
				Amount:     amount,
			}
		}

		if parsed != nil {
			transactions = append(transactions, parsed)
			rowIndex++
		}
	}

	return transactions, warnings
}

// --- Strategy 2: month-anchored line patterns ---

// extractPatternLines recovers rows from flat OCR text using fixed
// patterns anchored on a month abbreviation plus day. Credit-card lines
// carry two dates, a description and an amount with an optional CR suffix;
// bank lines carry one date, a description, up to two amounts and a
// balance.
func extractPatternLines(ocrText string, yearHint int, dc docClass) ([]*statement.ParsedTransaction, []string) {
	var transactions []*statement.ParsedTransaction
	var warnings []string

	rowIndex := 0
	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || shouldSkipRow(line) {
			continue
		}

		var parsed *statement.ParsedTransaction

		if dc.creditCard {
			if m := creditCardLinePattern.FindStringSubmatch(line); m != nil {
				txnDate, dateErr := ParseDate(m[1], yearHint)
				amount, isCredit, amountErr := CleanAmount(strings.TrimSpace(m[4]))
				if dateErr != nil || amountErr != nil {
					warnings = append(warnings, fmt.Sprintf("Skipped line (credit card parse error): %v", firstErr(dateErr, amountErr)))
				} else {
					if !isCredit {
						amount = amount.Neg()
					}
					parsed = &statement.ParsedTransaction{
						RowIndex:   rowIndex,
						Date:       txnDate,
						VendorName: strings.TrimSpace(m[3]),
						Amount:     amount,
					}
				}
			}
		}

		if parsed == nil && dc.bank {
			if m := bankLinePattern.FindStringSubmatch(line); m != nil {
				txnDate, dateErr := ParseDate(m[1], yearHint)
				if dateErr != nil {
					warnings = append(warnings, fmt.Sprintf("Skipped line (bank parse error): %v", dateErr))
				} else {
					amount, ok, amountErr := bankAmount(m[3], m[4])
					if amountErr != nil {
						warnings = append(warnings, fmt.Sprintf("Skipped line (bank parse error): %v", amountErr))
					} else if ok {
						parsed = &statement.ParsedTransaction{
							RowIndex:   rowIndex,
							Date:       txnDate,
							VendorName: strings.TrimSpace(m[2]),
							Amount:     amount,
						}
					}
				}
			}
		}

		if parsed != nil {
			transactions = append(transactions, parsed)
			rowIndex++
		}
	}

	return transactions, warnings
}

// --- Strategy 3: pipe-delimited rows ---

// extractDelimitedRows is the last-resort strategy for markdown-style
// pipe tables. The first cell that parses as a date is taken as the date
// column; among the remaining cells the last one that parses as an amount
// (scanned from the end) is the amount; everything else joins into the
// description.
func extractDelimitedRows(ocrText string, yearHint int, dc docClass) ([]*statement.ParsedTransaction, []string) {
	var transactions []*statement.ParsedTransaction

	rowIndex := 0
	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || shouldSkipRow(line) {
			continue
		}
		if !pipeRowPattern.MatchString(line) {
			continue
		}

		var cells []string
		for _, c := range strings.Split(line, "|") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				cells = append(cells, trimmed)
			}
		}
		if len(cells) < 3 {
			continue
		}

		parsed := parseDelimitedCells(cells, yearHint, dc, rowIndex)
		if parsed != nil {
			transactions = append(transactions, parsed)
			rowIndex++
		}
	}

	return transactions, nil
}

func parseDelimitedCells(cells []string, yearHint int, dc docClass, rowIndex int) *statement.ParsedTransaction {
	for i, cell := range cells {
		txnDate, err := ParseDate(cell, yearHint)
		if err != nil {
			continue
		}

		remaining := make([]string, 0, len(cells)-1)
		for j, c := range cells {
			if j != i {
				remaining = append(remaining, c)
			}
		}

		for k := len(remaining) - 1; k >= 0; k-- {
			amount, isCredit, err := CleanAmount(remaining[k])
			if err != nil {
				continue
			}
			var descCells []string
			for _, c := range remaining {
				if c != remaining[k] {
					descCells = append(descCells, c)
				}
			}
			description := strings.TrimSpace(strings.Join(descCells, " "))
			if description == "" {
				description = statement.UnknownVendor
			}
			if !isCredit && dc.creditCard {
				amount = amount.Neg()
			}
			return &statement.ParsedTransaction{
				RowIndex:   rowIndex,
				Date:       txnDate,
				VendorName: description,
				Amount:     amount,
			}
		}

		// A date was found but no amount; the row is not usable.
		return nil
	}
	return nil
}

// --- Shared helpers ---

// bankAmount resolves a debit/credit column pair into a signed amount.
// ok=false means neither column carried a value.
func bankAmount(debitStr, creditStr string) (amount decimal.Decimal, ok bool, err error) {
	switch {
	case debitStr != "" && debitStr != "0" && debitStr != "0.00":
		parsed, _, cleanErr := CleanAmount(debitStr)
		if cleanErr != nil {
			return amount, false, cleanErr
		}
		return parsed.Neg(), true, nil
	case creditStr != "" && creditStr != "0" && creditStr != "0.00":
		parsed, _, cleanErr := CleanAmount(creditStr)
		if cleanErr != nil {
			return amount, false, cleanErr
		}
		return parsed, true, nil
	default:
		return amount, false, nil
	}
}

func cleanCellEntities(cell string) string {
	r := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ")
	return strings.TrimSpace(r.Replace(cell))
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
