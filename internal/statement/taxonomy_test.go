package statement

import "testing"

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Advertising", "Advertising"},
		{"advertising", "Advertising"},
		{"  MEALS AND ENTERTAINMENT  ", "Meals and entertainment"},
		{"Other expenses", CategoryOther},
		{"Snacks", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		if got := CanonicalCategory(tt.input); got != tt.want {
			t.Errorf("CanonicalCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategories_ContainCatchAll(t *testing.T) {
	found := false
	for _, c := range Categories {
		if c == CategoryOther {
			found = true
		}
	}
	if !found {
		t.Fatalf("taxonomy must include %q", CategoryOther)
	}
}
