package categorizer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/oluto/statements/internal/statement"
)

// assignment is one model-produced categorization. Index is a pointer so a
// missing index field is distinguishable from index 0; Confidence is left
// untyped because models return it as a number or a quoted string.
type assignment struct {
	Index      *int   `json:"index"`
	Category   string `json:"category"`
	Confidence any    `json:"confidence"`
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// stripCodeFences unwraps a markdown-fenced JSON payload, returning the body
// unchanged when no fence is present.
func stripCodeFences(body string) string {
	if m := codeFencePattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(body)
}

// parseAssignments accepts either a bare JSON array of assignments or an
// object wrapping one under "results". Anything else yields an empty list
// rather than an error; a mangled model reply must not fail the import.
func parseAssignments(body string) []assignment {
	body = stripCodeFences(body)

	var list []assignment
	if err := json.Unmarshal([]byte(body), &list); err == nil {
		return list
	}

	var wrapped struct {
		Results []assignment `json:"results"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err == nil {
		return wrapped.Results
	}
	return nil
}

// clampConfidence coerces the model's confidence value to a float in [0, 1].
func clampConfidence(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// applyAssignments writes parsed assignments onto the transactions of one
// chunk. Indices are chunk-local; offset maps them back into the full slice.
// Out-of-range or index-less assignments are dropped, and any category
// outside the taxonomy is coerced to the catch-all.
func applyAssignments(txs []*statement.ParsedTransaction, offset int, assignments []assignment) {
	for _, a := range assignments {
		if a.Index == nil {
			continue
		}
		i := offset + *a.Index
		if i < offset || i >= len(txs) {
			continue
		}
		txs[i].Category = statement.CanonicalCategory(a.Category)
		txs[i].AIConfidence = clampConfidence(a.Confidence)
	}
}
