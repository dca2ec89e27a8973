package importer

import "regexp"

const monthAbbrev = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`

var (
	// Statement metadata.
	periodPattern       = regexp.MustCompile(`(?i)(?:statement\s+period|for\s+the\s+period)[:\s]*([^\n]+)`)
	periodEndingPattern = regexp.MustCompile(`(?i)period\s+ending\s+(\w+\s+\d{1,2},?\s*\d{4})`)
	cardAccountPattern  = regexp.MustCompile(`(?i)(BMO[^\n]*(?:MasterCard|Visa)[^\n]*)`)
	bankAccountPattern  = regexp.MustCompile(`(?i)(Business\s+(?:Banking|Account)[^\n]*)`)

	// Markup-table rows and cells. OCR engines frequently emit statement
	// tables as HTML fragments inside the markdown.
	tableRowPattern  = regexp.MustCompile(`(?s)<tr>(.*?)</tr>`)
	tableCellPattern = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)

	// First date token inside a cell that may carry two merged dates,
	// e.g. "Dec. 26 Dec. 29".
	mergedDatePattern = regexp.MustCompile(`(?i)^(` + monthAbbrev + `\.?\s+\d{1,2})`)

	// Credit card line: two dates, description, amount with optional CR.
	// "Dec. 26 Dec. 29 LinkedIn Pre P10151117 Mountain ViewCA 149.32"
	creditCardLinePattern = regexp.MustCompile(
		`(?i)^\|?\s*(` + monthAbbrev + `\.?\s+\d{1,2})\s+(` + monthAbbrev + `\.?\s+\d{1,2})\s+(.+?)\s+([\d,]+\.\d{2}(?:\s*CR)?)\s*\|?\s*$`)

	// Bank line: date, description, optional debit/credit, balance.
	// "Jan 08 Online Transfer, TF 2736#8921-633 250.00 273.23"
	bankLinePattern = regexp.MustCompile(
		`(?i)^\|?\s*(` + monthAbbrev + `\.?\s+\d{1,2})\s+(.+?)\s{2,}([\d,]+\.\d{2})?\s+([\d,]+\.\d{2})?\s+([\d,]+\.\d{2})\s*\|?\s*$`)

	// Gate for the pipe-delimited fallback: at least three pipe cells.
	pipeRowPattern = regexp.MustCompile(`\|\s*(.+?)\s*\|\s*(.+?)\s*\|\s*(.+?)\s*\|`)
)
