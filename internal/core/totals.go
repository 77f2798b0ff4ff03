package core

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals are the derived amounts of an invoice. Values are unrounded; round
// with Money or StringFixed(2) only when displaying or serializing.
type Totals struct {
	TotalBeforeTax decimal.Decimal
	CGSTAmount     decimal.Decimal
	SGSTAmount     decimal.Decimal
	GrandTotal     decimal.Decimal
	AmountInWords  string
}

// ComputeTotals is a pure function of the items and the two tax percentages.
// Every item contributes to the subtotal, including zero-quantity rows the
// user has not filled in yet; those rows are only dropped when persisting.
func ComputeTotals(items []LineItem, cgstPercent, sgstPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount())
	}

	cgst := subtotal.Mul(cgstPercent).Div(hundred)
	sgst := subtotal.Mul(sgstPercent).Div(hundred)
	grand := subtotal.Add(cgst).Add(sgst)

	return Totals{
		TotalBeforeTax: subtotal,
		CGSTAmount:     cgst,
		SGSTAmount:     sgst,
		GrandTotal:     grand,
		AmountInWords:  AmountInWords(grand),
	}
}

// ParsePercent coerces a tax percentage to the range [0, 100].
// Malformed input becomes zero.
func ParsePercent(raw string) decimal.Decimal {
	return clampPercent(ParseQuantity(raw))
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
