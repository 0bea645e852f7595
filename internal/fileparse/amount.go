package fileparse

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary string that may use either Brazilian
// ("1.500,00") or US ("1,500.00") separator conventions. Currency symbols
// and whitespace are stripped first. When both separators are present the
// one appearing later in the string is the decimal point; a lone comma is
// always decimal; a lone dot is parsed directly.
//
// The returned value keeps the sign of the input; callers that need a
// magnitude take Abs. A non-numeric string is an error.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := stripCurrency(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("invalid amount: %q", raw)
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		lastComma := strings.LastIndex(cleaned, ",")
		lastDot := strings.LastIndex(cleaned, ".")
		if lastComma > lastDot {
			// 1.500,00: dot is thousands, comma is decimal.
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			// 1,500.00: comma is thousands.
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		// 1500,00: comma is decimal.
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %q", raw)
	}
	return d, nil
}

// stripCurrency removes currency symbols and all whitespace. The R$ and
// US$ prefixes common in Brazilian exports are handled before the generic
// symbol strip so the R does not survive as a stray letter.
func stripCurrency(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "US$")
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ' ', '\t', ' ':
			return -1
		}
		return r
	}, s)
}
