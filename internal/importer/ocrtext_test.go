package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const markupStatement = `BMO Business Mastercard cashback rewards
Statement period: Dec 24, 2025 to Jan 23, 2026

<table>
<tr><th>TRANS DATE</th><th>POSTING DATE</th><th>DESCRIPTION</th><th>AMOUNT($)</th></tr>
<tr><td>Dec. 26</td><td>Dec. 29</td><td>GOOGLE *CLOUD SK8V7Q</td><td>49.28</td></tr>
<tr><td>Jan. 2</td><td>Jan. 3</td><td>AT&amp;T MOBILITY</td><td>32.52</td></tr>
<tr><td>Jan. 5</td><td>Jan. 6</td><td>REFUND ISSUED</td><td>15.68 CR</td></tr>
<tr><td>Subtotal</td><td></td><td></td><td>66.12</td></tr>
</table>`

func TestExtractFromOCRText_MarkupTable(t *testing.T) {
	txs, period, accountInfo, _ := ExtractFromOCRText(markupStatement, "statement-2026.pdf")

	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}

	if period != "Dec 24, 2025 to Jan 23, 2026" {
		t.Errorf("period = %q", period)
	}
	if !strings.Contains(accountInfo, "Mastercard") {
		t.Errorf("accountInfo = %q, want the card line", accountInfo)
	}

	wantAmounts := []string{"-49.28", "-32.52", "15.68"}
	for i, want := range wantAmounts {
		if !txs[i].Amount.Equal(decimal.RequireFromString(want)) {
			t.Errorf("transaction %d amount = %s, want %s", i, txs[i].Amount, want)
		}
	}

	// HTML entity decoded in the description cell.
	if txs[1].VendorName != "AT&T MOBILITY" {
		t.Errorf("vendor = %q, want AT&T MOBILITY", txs[1].VendorName)
	}

	// Statement spans the year boundary: December rows belong to 2025.
	if got := txs[0].Date; got.Year() != 2025 || got.Month() != time.December {
		t.Errorf("first transaction date = %v, want Dec 2025", got)
	}
	if got := txs[1].Date; got.Year() != 2026 || got.Month() != time.January {
		t.Errorf("second transaction date = %v, want Jan 2026", got)
	}
}

const lineStatement = `Business Banking statement
For the period: Jan 1, 2026 to Jan 31, 2026

Jan 08 Online Transfer, TF 2736  250.00 0.00 1273.23
Jan 09 Cheque deposit  0.00 523.75 1796.98
Jan 10 Opening balance  0.00 0.00 1796.98`

func TestExtractFromOCRText_LinePatterns(t *testing.T) {
	txs, _, _, _ := ExtractFromOCRText(lineStatement, "bank-2026.pdf")

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	if !txs[0].Amount.Equal(decimal.RequireFromString("-250.00")) {
		t.Errorf("debit amount = %s, want -250.00", txs[0].Amount)
	}
	if !txs[1].Amount.Equal(decimal.RequireFromString("523.75")) {
		t.Errorf("credit amount = %s, want 523.75", txs[1].Amount)
	}
	if txs[0].VendorName != "Online Transfer, TF 2736" {
		t.Errorf("vendor = %q", txs[0].VendorName)
	}
}

func TestExtractFromOCRText_CreditCardLines(t *testing.T) {
	text := `BMO Mastercard statement

Dec. 26 Dec. 29 LINKEDIN PRE P10151117 149.32
Jan. 2 Jan. 3 REFUND ISSUED 15.68 CR`

	txs, _, _, _ := ExtractFromOCRText(text, "card-2026.pdf")

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("-149.32")) {
		t.Errorf("charge amount = %s, want -149.32", txs[0].Amount)
	}
	if !txs[1].Amount.Equal(decimal.RequireFromString("15.68")) {
		t.Errorf("credit amount = %s, want 15.68", txs[1].Amount)
	}
	if txs[0].VendorName != "LINKEDIN PRE P10151117" {
		t.Errorf("vendor = %q", txs[0].VendorName)
	}
}

func TestExtractFromOCRText_PipeFallback(t *testing.T) {
	text := `Visa statement summary

| Date | Description | Amount |
|---|---|---|
| Jan 5, 2026 | STAPLES STORE 114 | 45.10 |
| Jan 7, 2026 | REFUND ISSUED | 12.00 CR |`

	txs, _, _, _ := ExtractFromOCRText(text, "card-2026.pdf")

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("-45.10")) {
		t.Errorf("amount = %s, want -45.10", txs[0].Amount)
	}
	if txs[0].VendorName != "STAPLES STORE 114" {
		t.Errorf("vendor = %q", txs[0].VendorName)
	}
	if !txs[1].Amount.Equal(decimal.RequireFromString("12.00")) {
		t.Errorf("credit amount = %s, want 12.00", txs[1].Amount)
	}
}

func TestExtractFromOCRText_FirstNonEmptyStrategyWins(t *testing.T) {
	// Markup rows and pipe rows both present: only the markup rows are used.
	text := markupStatement + `

| Jan 9, 2026 | SHOULD NOT APPEAR | 1.00 |`

	txs, _, _, _ := ExtractFromOCRText(text, "statement-2026.pdf")

	for _, tx := range txs {
		if strings.Contains(tx.VendorName, "SHOULD NOT APPEAR") {
			t.Errorf("pipe-strategy row leaked into markup results: %q", tx.VendorName)
		}
	}
	if len(txs) != 3 {
		t.Errorf("got %d transactions, want 3 markup rows", len(txs))
	}
}

func TestExtractFromOCRText_NoTransactions(t *testing.T) {
	txs, period, accountInfo, _ := ExtractFromOCRText("This page intentionally left blank.", "x.pdf")

	if len(txs) != 0 {
		t.Errorf("got %d transactions, want 0", len(txs))
	}
	if period != "" || accountInfo != "" {
		t.Errorf("unexpected metadata: %q / %q", period, accountInfo)
	}
}

func TestClassifyStatement(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCard bool
		wantBank bool
	}{
		{name: "mastercard", text: "BMO Mastercard statement", wantCard: true},
		{name: "visa", text: "Your VISA account", wantCard: true},
		{name: "chequing", text: "Business chequing summary", wantBank: true},
		{name: "both", text: "Business Banking. Credit card promotions inside.", wantCard: true, wantBank: true},
		{name: "neither", text: "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := classifyStatement(tt.text)
			if dc.creditCard != tt.wantCard {
				t.Errorf("creditCard = %v, want %v", dc.creditCard, tt.wantCard)
			}
			if dc.bank != tt.wantBank {
				t.Errorf("bank = %v, want %v", dc.bank, tt.wantBank)
			}
		})
	}
}
