package register

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is printed before every amount and stripped from input.
const CurrencyPrefix = "R$"

// FormatMoney renders two decimal places with a comma separator: "R$ 12,50".
func FormatMoney(d decimal.Decimal) string {
	return CurrencyPrefix + " " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ParseAmount reads currency text typed by the operator. Unparsable input
// yields zero. ChangeFor is stricter and rejects non-empty unparsable cash.
func ParseAmount(text string) decimal.Decimal {
	d, _ := parseAmount(text)
	return d
}

// parseAmount normalizes separators and reports whether text held a number.
//
// Accepted: "50", "50,00", "50.00", "R$ 1.234,56", "1,234.56", "1.234.567".
// A single comma with no period is always the decimal separator. When both
// separators appear the rightmost one is the decimal separator.
func parseAmount(text string) (decimal.Decimal, bool) {
	txt := strings.ToUpper(strings.TrimSpace(text))
	txt = strings.Replace(txt, CurrencyPrefix, "", 1)
	txt = strings.Join(strings.Fields(txt), "")
	if txt == "" {
		return decimal.Zero, false
	}

	commas := strings.Count(txt, ",")
	dots := strings.Count(txt, ".")
	switch {
	case commas == 1 && dots == 0:
		txt = strings.Replace(txt, ",", ".", 1)
	case commas > 0 && dots > 0:
		if strings.LastIndex(txt, ",") > strings.LastIndex(txt, ".") {
			txt = strings.ReplaceAll(txt, ".", "")
			txt = strings.Replace(txt, ",", ".", 1)
		} else {
			txt = strings.ReplaceAll(txt, ",", "")
		}
	case commas > 1:
		txt = strings.ReplaceAll(txt, ",", "")
	case dots > 1:
		txt = strings.ReplaceAll(txt, ".", "")
	}

	if strings.ContainsAny(txt, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(txt)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// TryParseAmount is ParseAmount that also reports whether text held a number.
func TryParseAmount(text string) (decimal.Decimal, bool) {
	return parseAmount(text)
}
