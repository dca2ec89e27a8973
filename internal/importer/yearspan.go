package importer

import (
	"time"

	"github.com/oluto/statements/internal/statement"
)

// FixYearSpanningDates corrects statements that cross a calendar year
// boundary (e.g. Dec 2025 -> Jan 2026). Extraction normalizes every row to
// one year hint, so when a statement contains both early-month (Jan/Feb)
// and late-month (Nov/Dec) dates in the same nominal year, the late-month
// entries belong to the previous year. Modifies transactions in place.
func FixYearSpanningDates(transactions []*statement.ParsedTransaction) {
	if len(transactions) == 0 {
		return
	}

	hasEarly, hasLate := false, false
	for _, t := range transactions {
		switch m := int(t.Date.Month()); {
		case m <= 2:
			hasEarly = true
		case m >= 11:
			hasLate = true
		}
	}
	if !hasEarly || !hasLate {
		return
	}

	for _, t := range transactions {
		if int(t.Date.Month()) >= 11 {
			t.Date = time.Date(t.Date.Year()-1, t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, t.Date.Location())
		}
	}
}
