package categorizer

import (
	"testing"

	"github.com/oluto/statements/internal/statement"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: `[{"index": 0}]`, want: `[{"index": 0}]`},
		{name: "json fence", input: "```json\n[{\"index\": 0}]\n```", want: `[{"index": 0}]`},
		{name: "bare fence", input: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", input: "  [1, 2]  ", want: "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.input); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAssignments(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		got := parseAssignments(`[{"index": 0, "category": "Supplies", "confidence": 0.9}]`)
		if len(got) != 1 || got[0].Index == nil || *got[0].Index != 0 || got[0].Category != "Supplies" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("results wrapper", func(t *testing.T) {
		got := parseAssignments(`{"results": [{"index": 1, "category": "Travel", "confidence": "0.7"}]}`)
		if len(got) != 1 || got[0].Index == nil || *got[0].Index != 1 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("fenced payload", func(t *testing.T) {
		got := parseAssignments("```json\n[{\"index\": 0, \"category\": \"Rent\"}]\n```")
		if len(got) != 1 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("garbage yields empty", func(t *testing.T) {
		if got := parseAssignments("I could not categorize these."); len(got) != 0 {
			t.Errorf("got %+v", got)
		}
	})
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "in range", input: 0.85, want: 0.85},
		{name: "above one", input: 3.2, want: 1},
		{name: "negative", input: -0.5, want: 0},
		{name: "numeric string", input: "0.7", want: 0.7},
		{name: "bad string", input: "high", want: 0},
		{name: "nil", input: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampConfidence(tt.input); got != tt.want {
				t.Errorf("clampConfidence(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyAssignments(t *testing.T) {
	txs := []*statement.ParsedTransaction{{}, {}, {}, {}}
	idx0, idx1, idxOut := 0, 1, 99

	applyAssignments(txs, 2, []assignment{
		{Index: &idx0, Category: "Supplies", Confidence: 0.9},
		{Index: &idx1, Category: "made-up category", Confidence: 0.4},
		{Index: &idxOut, Category: "Travel", Confidence: 0.5},
		{Index: nil, Category: "Rent", Confidence: 0.5},
	})

	// Chunk offset 2: chunk-local index 0 lands on transaction 2.
	if txs[2].Category != "Supplies" || txs[2].AIConfidence != 0.9 {
		t.Errorf("txs[2] = %+v", txs[2])
	}
	// Unknown categories coerce to the catch-all.
	if txs[3].Category != statement.CategoryOther {
		t.Errorf("txs[3].Category = %q, want %q", txs[3].Category, statement.CategoryOther)
	}
	// Out-of-range and index-less assignments are dropped.
	if txs[0].Category != "" || txs[1].Category != "" {
		t.Errorf("pre-chunk transactions must be untouched: %+v %+v", txs[0], txs[1])
	}
}
