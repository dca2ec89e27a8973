package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oluto/statements/internal/statement"
)

func TestBuildTransactionRows_AssignsUniqueIDs(t *testing.T) {
	desc := "toner refill"
	txs := []*statement.ParsedTransaction{
		{Date: day(2024, time.January, 5), VendorName: "Staples", Amount: decimal.NewFromFloat(-42.10), Description: &desc, Category: "Office expenses", AIConfidence: 0.9},
		{Date: day(2024, time.January, 6), VendorName: "Shell", Amount: decimal.NewFromFloat(-60.00)},
		{Date: day(2024, time.January, 7), VendorName: "Client Inc", Amount: decimal.NewFromFloat(1200.00)},
	}

	now := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)
	rows := buildTransactionRows("biz-1", txs, now)

	if len(rows) != len(txs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(txs))
	}

	seen := make(map[int64]bool)
	for i, row := range rows {
		if row.TransactionID == 0 {
			t.Errorf("rows[%d].TransactionID = 0, want a real identity", i)
		}
		if seen[row.TransactionID] {
			t.Errorf("rows[%d].TransactionID = %d assigned twice", i, row.TransactionID)
		}
		seen[row.TransactionID] = true
		if row.BusinessID != "biz-1" {
			t.Errorf("rows[%d].BusinessID = %q", i, row.BusinessID)
		}
		if !row.CreatedTS.Equal(now) {
			t.Errorf("rows[%d].CreatedTS = %v, want %v", i, row.CreatedTS, now)
		}
	}

	laterRows := buildTransactionRows("biz-1", txs, now.Add(time.Second))
	for i, row := range laterRows {
		if seen[row.TransactionID] {
			t.Errorf("later batch reused TransactionID %d (row %d)", row.TransactionID, i)
		}
	}
}

func TestBuildTransactionRows_NullableFields(t *testing.T) {
	desc := "toner refill"
	txs := []*statement.ParsedTransaction{
		{Date: day(2024, time.January, 5), VendorName: "Staples", Amount: decimal.NewFromFloat(-42.10), Description: &desc, Category: "Office expenses", AIConfidence: 0.9},
		{Date: day(2024, time.January, 6), VendorName: "Shell", Amount: decimal.NewFromFloat(-60.00)},
	}

	rows := buildTransactionRows("biz-1", txs, time.Now().UTC())

	if !rows[0].Description.Valid || rows[0].Description.StringVal != desc {
		t.Errorf("rows[0].Description = %+v", rows[0].Description)
	}
	if !rows[0].Category.Valid || !rows[0].AIConfidence.Valid {
		t.Errorf("categorized row must carry category and confidence: %+v", rows[0])
	}
	if rows[1].Description.Valid || rows[1].Category.Valid || rows[1].AIConfidence.Valid {
		t.Errorf("uncategorized row must leave nullable fields null: %+v", rows[1])
	}
}
