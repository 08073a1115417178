package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var priceRe = regexp.MustCompile(`€(\d+)[,.](\d+)`)

// ExtractPrice returns the first "€<int>[,.]<int>" amount found in a catalog
// price text. A range such as "€2.50 - €4.50" yields its lower bound. Text
// without a match yields zero.
func ExtractPrice(text string) decimal.Decimal {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m[1] + "." + m[2])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatEUR renders an amount as "€x.xx".
func FormatEUR(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}
