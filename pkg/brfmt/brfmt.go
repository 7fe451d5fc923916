// Package brfmt formats decimal amounts the Brazilian way: "." groups
// thousands and "," separates the fraction.
package brfmt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Number formats d with the given number of decimal places, e.g. 1.234.567,89
func Number(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// Currency formats an amount in reais, e.g. R$ 1.234,56
func Currency(d decimal.Decimal) string {
	return "R$ " + Number(d, 2)
}

// Percent formats a 0-1 fraction as a percentage, e.g. 0.0165 -> 1,65%
func Percent(fraction decimal.Decimal) string {
	return Number(fraction.Mul(hundred), 2) + "%"
}

// ParseNumber parses a number written either the Brazilian way (1.234,56)
// or plainly (1234.56). A comma, or more than one dot, marks the Brazilian form.
// A single dot followed by exactly three digits, as in 1.500, could be either
// form and is rejected.
func ParseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if !strings.Contains(s, ",") && strings.Count(s, ".") == 1 {
		if _, frac, _ := strings.Cut(s, "."); len(frac) == 3 {
			return decimal.Zero, fmt.Errorf("ambiguous number %q: write 1.500,00 for thousands or 1500 without separators", s)
		}
	}
	if strings.Contains(s, ",") || strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
