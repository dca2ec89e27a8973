package importer

import (
	"fmt"
	"strings"
)

// Column detection patterns, matched case-insensitively as substrings.
// Order matters: the first pattern that matches any header wins, so more
// specific patterns ("trans date") come before generic ones ("date").
var (
	datePatterns    = []string{"trans date", "transaction date", "posting date", "date"}
	amountPatterns  = []string{"amount", "amounts"}
	debitPatterns   = []string{"debit", "debited", "withdrawal", "withdrawals"}
	creditPatterns  = []string{"credit", "credited", "deposit", "deposits"}
	descPatterns    = []string{"description", "details", "payee", "name"}
	memoPatterns    = []string{"memo", "notes", "reference", "particulars"}
	balancePatterns = []string{"balance"}
)

// columnLayout holds the detected column indices for one CSV file.
// An index of -1 means the role was not found.
type columnLayout struct {
	date   int
	amount int
	debit  int
	credit int
	desc   int
	memo   int
}

// findColumn returns the index of the first header matching any pattern,
// trying patterns in priority order. Returns -1 when nothing matches.
func findColumn(headers []string, patterns []string) int {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, pattern := range patterns {
		for i, h := range lowered {
			if strings.Contains(h, pattern) {
				return i
			}
		}
	}
	return -1
}

// detectColumns infers which CSV columns hold the date, description and
// amount(s). It returns the layout plus any human-readable warnings, or an
// error naming the missing role when no usable schema can be found.
func detectColumns(headers []string) (columnLayout, []string, error) {
	var warnings []string

	layout := columnLayout{
		date:   findColumn(headers, datePatterns),
		amount: findColumn(headers, amountPatterns),
		debit:  findColumn(headers, debitPatterns),
		credit: findColumn(headers, creditPatterns),
		desc:   findColumn(headers, descPatterns),
		memo:   findColumn(headers, memoPatterns),
	}

	// A "Reference" or "Memo" header can win the description role via the
	// generic "name" pattern. Reassign it and pick a fallback description.
	if layout.desc >= 0 {
		descName := strings.ToLower(strings.TrimSpace(headers[layout.desc]))
		for _, memoPattern := range memoPatterns {
			if descName == memoPattern {
				if layout.memo < 0 {
					layout.memo = layout.desc
				}
				layout.desc = -1
				break
			}
		}
	}

	if layout.date < 0 {
		return layout, warnings, fmt.Errorf("could not detect a date column; columns found: %v", headers)
	}

	if layout.desc < 0 {
		if fallback := fallbackDescColumn(headers, layout); fallback >= 0 {
			layout.desc = fallback
			warnings = append(warnings, fmt.Sprintf("Could not detect description column; using %q.", headers[fallback]))
		}
	}

	hasDebitCredit := layout.debit >= 0 || layout.credit >= 0
	hasSingleAmount := layout.amount >= 0 && !hasDebitCredit
	if !hasSingleAmount && !hasDebitCredit {
		return layout, warnings, fmt.Errorf("could not detect amount columns; columns found: %v", headers)
	}

	return layout, warnings, nil
}

// fallbackDescColumn picks the first column not already claimed by another
// role and not balance-like. Returns -1 when every column is claimed.
func fallbackDescColumn(headers []string, layout columnLayout) int {
	for i, h := range headers {
		if i == layout.date || i == layout.amount || i == layout.debit || i == layout.credit || i == layout.memo {
			continue
		}
		lowered := strings.ToLower(h)
		isBalance := false
		for _, bp := range balancePatterns {
			if strings.Contains(lowered, bp) {
				isBalance = true
				break
			}
		}
		if !isBalance {
			return i
		}
	}
	return -1
}
