package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oluto/statements/internal/statement"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryStore_InsertAndQuery(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	txs := []*statement.ParsedTransaction{
		{Date: day(2024, time.January, 5), VendorName: "Staples", Amount: decimal.NewFromFloat(-42.10)},
		{Date: day(2024, time.February, 1), VendorName: "Shell", Amount: decimal.NewFromFloat(-60.00)},
	}
	if err := s.InsertTransactions(ctx, "biz-1", txs); err != nil {
		t.Fatalf("InsertTransactions: %v", err)
	}

	got, err := s.QueryByDateRange(ctx, "biz-1", day(2024, time.January, 1), day(2024, time.January, 31))
	if err != nil {
		t.Fatalf("QueryByDateRange: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].VendorName != "Staples" {
		t.Errorf("VendorName = %q, want Staples", got[0].VendorName)
	}
	if got[0].ID == 0 {
		t.Error("inserted transaction should be assigned a nonzero ID")
	}
}

func TestMemoryStore_IsolatesBusinesses(t *testing.T) {
	s := NewMemoryStore()
	s.Seed("biz-1", statement.ExistingTransaction{Date: day(2024, time.March, 3), VendorName: "Aircanada", Amount: decimal.NewFromFloat(-300)})

	got, err := s.QueryByDateRange(context.Background(), "biz-2", day(2024, time.January, 1), day(2024, time.December, 31))
	if err != nil {
		t.Fatalf("QueryByDateRange: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows for other business, got %d", len(got))
	}
}

func TestMemoryStore_SeedAssignsIDs(t *testing.T) {
	s := NewMemoryStore()
	s.Seed("biz-1",
		statement.ExistingTransaction{ID: 10, Date: day(2024, time.April, 1), VendorName: "Rogers"},
		statement.ExistingTransaction{Date: day(2024, time.April, 2), VendorName: "Bell"},
	)

	got, err := s.QueryByDateRange(context.Background(), "biz-1", day(2024, time.April, 1), day(2024, time.April, 30))
	if err != nil {
		t.Fatalf("QueryByDateRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[1].ID <= 10 {
		t.Errorf("auto-assigned ID = %d, want > 10", got[1].ID)
	}
}
