// Package pricing converts integer minor-unit amounts into currency-correct
// display strings. All monetary arithmetic elsewhere happens in minor units;
// formatting is the last step before a value enters a render context.
package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// zeroDecimalCurrencies are ISO 4217 currencies with no minor unit. Lookup
// keys are lower-case.
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {},
	"kmf": {}, "krw": {}, "mga": {}, "pyg": {}, "rwf": {},
	"ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// IsZeroDecimal reports whether the currency has no minor unit.
func IsZeroDecimal(currencyCode string) bool {
	_, ok := zeroDecimalCurrencies[strings.ToLower(currencyCode)]
	return ok
}

// FormatAmount renders a minor-unit amount as a decimal string for the given
// currency. An amount of exactly zero yields "0.00" (or "0" for zero-decimal
// currencies). Negative amounts keep their sign.
func FormatAmount(amount int64, currencyCode string) string {
	if IsZeroDecimal(currencyCode) {
		return strconv.FormatInt(amount, 10)
	}

	abs := amount
	if abs < 0 {
		abs = -abs
	}
	s := fmt.Sprintf("%d.%02d", abs/100, abs%100)
	if amount < 0 {
		s = "-" + s
	}
	return s
}

// FormatWithCurrency renders an amount followed by its upper-cased currency
// code, e.g. "10.50 USD". This is the display form used for fixed discounts,
// gift-card lines, and item prices.
func FormatWithCurrency(amount int64, currencyCode string) string {
	return FormatAmount(amount, currencyCode) + " " + strings.ToUpper(currencyCode)
}
