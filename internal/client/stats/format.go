package stats

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = money.USD

// FormatAmount renders amount in currency, e.g. "$1,234.50". Unknown
// currency codes fall back to DefaultCurrency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatFloat is FormatAmount for a raw transaction amount.
func FormatFloat(amount float64, currency string) string {
	return FormatAmount(decimal.NewFromFloat(amount), currency)
}

// FormatPercent renders p with one decimal place.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
