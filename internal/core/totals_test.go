package core_test

import (
	"testing"

	"granite-console/internal/core"

	"github.com/shopspring/decimal"
)

func item(qty, rate float64) core.LineItem {
	return core.LineItem{
		Particulars: "Black Granite",
		HSN:         core.DefaultHSN,
		Quantity:    decimal.NewFromFloat(qty),
		Rate:        decimal.NewFromFloat(rate),
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	got := core.ComputeTotals(nil, decimal.NewFromInt(9), decimal.NewFromInt(9))
	for name, v := range map[string]decimal.Decimal{
		"totalBeforeTax": got.TotalBeforeTax,
		"cgstAmount":     got.CGSTAmount,
		"sgstAmount":     got.SGSTAmount,
		"grandTotal":     got.GrandTotal,
	} {
		if !v.IsZero() {
			t.Errorf("%s = %s, want 0", name, v)
		}
	}
	if got.AmountInWords != "Zero" {
		t.Errorf("amountInWords = %q, want Zero", got.AmountInWords)
	}
}

func TestComputeTotals_IncludesZeroQuantityRows(t *testing.T) {
	items := []core.LineItem{item(2, 100), item(0, 50)}
	got := core.ComputeTotals(items, decimal.NewFromInt(9), decimal.NewFromInt(9))

	if !got.TotalBeforeTax.Equal(decimal.NewFromInt(200)) {
		t.Errorf("totalBeforeTax = %s, want 200", got.TotalBeforeTax)
	}
	if !got.CGSTAmount.Equal(decimal.NewFromInt(18)) || !got.SGSTAmount.Equal(decimal.NewFromInt(18)) {
		t.Errorf("tax = %s/%s, want 18/18", got.CGSTAmount, got.SGSTAmount)
	}
	if got.GrandTotal.StringFixed(2) != "236.00" {
		t.Errorf("grandTotal = %s, want 236.00", got.GrandTotal.StringFixed(2))
	}
	if got.AmountInWords != "Two Hundred Thirty Six Rupees Only" {
		t.Errorf("amountInWords = %q", got.AmountInWords)
	}
}

func TestComputeTotals_GrandTotalIsSumOfParts(t *testing.T) {
	items := []core.LineItem{item(3.5, 1234.56), item(7, 99.99), item(0.125, 8000)}
	for _, pct := range []int64{0, 1, 2, 5, 6, 9, 12, 14, 18, 28, 50, 100} {
		p := decimal.NewFromInt(pct)
		got := core.ComputeTotals(items, p, p.Div(decimal.NewFromInt(2)))
		sum := got.TotalBeforeTax.Add(got.CGSTAmount).Add(got.SGSTAmount)
		if !got.GrandTotal.Equal(sum) {
			t.Errorf("pct %d: grand %s != %s", pct, got.GrandTotal, sum)
		}
	}
}

func TestComputeTotals_RoundsOnlyAtTheBoundary(t *testing.T) {
	// 3 × 0.335 = 1.005; rounding each step would lose the half paisa.
	items := []core.LineItem{item(3, 0.335)}
	got := core.ComputeTotals(items, decimal.Zero, decimal.Zero)
	if got.TotalBeforeTax.String() != "1.005" {
		t.Errorf("internal subtotal = %s, want 1.005", got.TotalBeforeTax)
	}
	if core.Money(got.TotalBeforeTax) != 1.01 {
		t.Errorf("rounded subtotal = %v, want 1.01", core.Money(got.TotalBeforeTax))
	}
}

func TestParsePercent(t *testing.T) {
	tests := map[string]string{
		"9":     "9",
		"2.5":   "2.5",
		"":      "0",
		"nine":  "0",
		"-3":    "0",
		"150":   "100",
		" 18 ":  "18",
		"100.0": "100",
	}
	for raw, want := range tests {
		if got := core.ParsePercent(raw); !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("ParsePercent(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Zero"},
		{"0.004", "Zero"},
		{"1", "One Rupees Only"},
		{"19", "Nineteen Rupees Only"},
		{"236", "Two Hundred Thirty Six Rupees Only"},
		{"1180", "One Thousand One Hundred Eighty Rupees Only"},
		{"7080", "Seven Thousand Eighty Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"250075.5", "Two Lakh Fifty Thousand Seventy Five Rupees and Fifty Paise Only"},
		{"12345678.9", "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees and Ninety Paise Only"},
		{"0.75", "Seventy Five Paise Only"},
		{"1000000000", "One Hundred Crore Rupees Only"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := core.AmountInWords(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
