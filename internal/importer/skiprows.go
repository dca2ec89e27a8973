package importer

import "strings"

// skipPatterns mark rows that are statement furniture rather than
// transactions: balances, section totals, payment boilerplate, page
// markers. Matched as case-insensitive substrings of the description.
var skipPatterns = []string{
	"opening balance",
	"closing total",
	"closing balance",
	"subtotal",
	"total for card",
	"total for",
	"number of items",
	"page ",
	"purchases",
	"cash advances",
	"balance transfers",
	"fees and interest",
	"payments and credits",
	"new charges",
	"previous balance",
	"new balance",
	"credit limit",
	"available credit",
	"minimum payment",
	"payment due",
	"amount enclosed",
}

func shouldSkipRow(description string) bool {
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, pattern := range skipPatterns {
		if strings.Contains(desc, pattern) {
			return true
		}
	}
	return false
}
