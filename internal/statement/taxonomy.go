package statement

import "strings"

// Categories is the closed list of CRA T2125 expense categories used for
// AI categorization. It must stay in sync with the category lists shown in
// the web client.
var Categories = []string{
	"Advertising",
	"Bad debts",
	"Business tax, fees, licences, dues, memberships",
	"Delivery, freight, and express",
	"Fuel costs",
	"Insurance",
	"Interest and bank charges",
	"Legal, accounting, and professional fees",
	"Management and administration fees",
	"Meals and entertainment",
	"Motor vehicle expenses",
	"Office expenses",
	"Prepaid expenses",
	"Property taxes",
	"Rent",
	"Repairs and maintenance",
	"Salaries, wages, and benefits",
	"Supplies",
	"Telephone and utilities",
	"Travel",
	CategoryOther,
}

// CategoryOther is the catch-all category every unrecognized classifier
// output is coerced into.
const CategoryOther = "Other expenses"

var categoryLookup = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, c := range Categories {
		m[strings.ToLower(c)] = c
	}
	return m
}()

// CanonicalCategory maps a classifier-reported category string onto the
// taxonomy. Matching is case-insensitive after trimming; anything that does
// not match resolves to CategoryOther, never an error.
func CanonicalCategory(category string) string {
	if canonical, ok := categoryLookup[strings.ToLower(strings.TrimSpace(category))]; ok {
		return canonical
	}
	return CategoryOther
}
