package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CleanAmount normalizes a raw amount token from a statement and reports
// whether it carried a trailing "CR" (credit) marker.
//
// Handled inputs:
//   - "$1,234.56"  -> 1234.56
//   - "89.86 CR"   -> (89.86, credit)
//   - "(50.00)"    -> 50.00 (parentheses denote a debit; the caller applies
//     the sign convention, CleanAmount never negates)
//
// Returns an error on empty or non-numeric input after cleaning.
func CleanAmount(value string) (decimal.Decimal, bool, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return decimal.Decimal{}, false, fmt.Errorf("empty amount")
	}

	isCredit := false
	if strings.HasSuffix(strings.ToUpper(raw), "CR") {
		isCredit = true
		raw = strings.TrimSpace(raw[:len(raw)-2])
	}

	raw = strings.ReplaceAll(raw, "$", "")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}

	if raw == "" {
		return decimal.Decimal{}, false, fmt.Errorf("empty amount after cleaning")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("invalid amount %q: %w", value, err)
	}

	return amount, isCredit, nil
}

// fullDateLayouts are tried first, in order. "01/02/2006" before
// "02/01/2006" means ambiguous slash dates resolve month-first.
var fullDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"01-02-2006",
}

// shortDateLayouts are month+day only; the year comes from the caller's hint.
var shortDateLayouts = []string{
	"Jan 2 2006",
	"January 2 2006",
}

var monthAbbrevPeriod = regexp.MustCompile(`(\w{3})\.`)

// ParseDate parses the date formats seen on bank and credit card
// statements:
//
//	"Jan. 28" / "Jan 28" / "Dec. 29"   (month+day, needs yearHint)
//	"01/28/2026" / "2026-01-28" / "28/01/2026"
//	"January 28, 2026"
//
// yearHint supplies the year for month+day inputs; when zero the current
// year is used.
func ParseDate(value string, yearHint int) (time.Time, error) {
	raw := strings.TrimRight(strings.TrimSpace(value), ".")

	for _, layout := range fullDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}

	// "Jan. 28" -> "Jan 28", then retry with the hinted year appended.
	cleaned := monthAbbrevPeriod.ReplaceAllString(raw, "$1")
	year := yearHint
	if year == 0 {
		year = time.Now().Year()
	}
	for _, layout := range shortDateLayouts {
		if d, err := time.Parse(layout, fmt.Sprintf("%s %d", cleaned, year)); err == nil {
			return d, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %q", value)
}

var filenameYearPattern = regexp.MustCompile(`20\d{2}`)

// yearFromFilename extracts a year hint from filenames like
// "January 28, 2026.pdf". Returns 0 if no 4-digit year is present.
func yearFromFilename(filename string) int {
	match := filenameYearPattern.FindString(filename)
	if match == "" {
		return 0
	}
	year := 0
	for _, ch := range match {
		year = year*10 + int(ch-'0')
	}
	return year
}
