package importer

import (
	"strings"
	"time"

	"github.com/oluto/statements/internal/statement"
)

// vendorPrefixLen is how many characters of the lowercased vendor name are
// compared when deciding whether two same-date, same-amount transactions
// are the same. A heuristic, not content matching: near-miss spellings and
// coincidental prefixes are accepted tradeoffs.
const vendorPrefixLen = 10

// MarkDuplicates flags parsed transactions that already exist in the
// datastore. Duplicate criteria: same calendar date, same absolute amount,
// and matching vendor-name prefix. The first matching existing transaction
// wins per candidate. Idempotent over repeated runs.
func MarkDuplicates(transactions []*statement.ParsedTransaction, existing []statement.ExistingTransaction) {
	if len(transactions) == 0 || len(existing) == 0 {
		return
	}

	lookup := make(map[string][]statement.ExistingTransaction)
	for _, txn := range existing {
		key := duplicateKey(txn.Date, txn.Amount.Abs().StringFixed(2))
		lookup[key] = append(lookup[key], txn)
	}

	for _, parsed := range transactions {
		key := duplicateKey(parsed.Date, parsed.Amount.Abs().StringFixed(2))
		for _, candidate := range lookup[key] {
			if vendorPrefix(candidate.VendorName) == vendorPrefix(parsed.VendorName) {
				id := candidate.ID
				parsed.IsDuplicate = true
				parsed.DuplicateTransactionID = &id
				break
			}
		}
	}
}

// duplicateKey normalizes a possibly timestamp-bearing date to a plain
// calendar day before keying.
func duplicateKey(date time.Time, absAmount string) string {
	return date.Format("2006-01-02") + "|" + absAmount
}

func vendorPrefix(name string) string {
	lowered := strings.ToLower(name)
	if len(lowered) > vendorPrefixLen {
		return lowered[:vendorPrefixLen]
	}
	return lowered
}
