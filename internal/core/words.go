package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tens = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// AmountInWords renders an amount in Indian numbering (lakh, crore) as it is
// printed on a tax invoice, e.g. "Two Hundred Thirty Six Rupees Only".
// An amount that rounds to 0.00 is rendered as "Zero".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	if amount.IsZero() {
		return "Zero"
	}

	whole := amount.Truncate(0)
	rupees := whole.IntPart()
	paise := amount.Sub(whole).Mul(hundred).IntPart()

	var b strings.Builder
	if rupees > 0 {
		b.WriteString(indianWords(rupees))
		b.WriteString(" Rupees")
	}
	if paise > 0 {
		if rupees > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(indianWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// indianWords spells a positive integer using crore/lakh/thousand/hundred groups.
func indianWords(n int64) string {
	var parts []string
	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000), "Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, belowHundred(n/100000), "Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, belowHundred(n/1000), "Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
