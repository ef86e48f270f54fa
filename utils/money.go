package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with two decimals and a currency prefix, e.g. "$1234.50".
// Negative amounts are written "-$12.00". No thousands separator is used.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	if strings.HasPrefix(fixed, "-") {
		if fixed == "-0.00" {
			return symbol + "0.00"
		}
		return "-" + symbol + fixed[1:]
	}
	return symbol + fixed
}

// FormatPriceRange formats a min/max pair, collapsing it when both ends match:
// "$120.00 - $160.00" or "$99.00"
func FormatPriceRange(symbol string, min, max decimal.Decimal) string {
	if min.Equal(max) {
		return FormatMoney(symbol, min)
	}
	return FormatMoney(symbol, min) + " - " + FormatMoney(symbol, max)
}
