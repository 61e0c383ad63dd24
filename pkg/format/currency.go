// Package format renders monetary amounts for display.
package format

import (
	"strconv"
	"strings"

	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

// Amount returns the value rounded to two decimals without separators
// (e.g., "12594.00"). Rounding uses the exact binary value, so 25470.315
// stored as 25470.314999... prints as "25470.31".
func Amount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', constants.DisplayPlaces, 64)
}

// Round returns the float nearest to the two-decimal value Amount prints.
func Round(amount float64) float64 {
	rounded, err := strconv.ParseFloat(Amount(amount), 64)
	if err != nil {
		return amount
	}
	return rounded
}

// NumericCurrency returns the rounded value with thousands separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	d := round(amount)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + group(d.Abs().StringFixed(constants.DisplayPlaces))
}

// Percent formats a percentage value with two decimals and a trailing sign.
func Percent(value float64) string {
	return round(value).StringFixed(constants.DisplayPlaces) + "%"
}

// Compact shortens large amounts for chart axes (e.g., "1.2M", "35k").
func Compact(amount float64) string {
	d := decimal.NewFromFloat(amount)
	abs := d.Abs()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	switch {
	case abs.GreaterThanOrEqual(decimal.New(1, 9)):
		return sign + abs.Shift(-9).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(decimal.New(1, 6)):
		return sign + abs.Shift(-6).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(decimal.New(1, 3)):
		return sign + abs.Shift(-3).StringFixed(1) + "k"
	default:
		return sign + abs.StringFixed(0)
	}
}

// round converts through Amount so grouping sees the same digits.
func round(amount float64) decimal.Decimal {
	d, err := decimal.NewFromString(Amount(amount))
	if err != nil {
		return decimal.NewFromFloat(amount).Round(constants.DisplayPlaces)
	}
	return d
}

func group(formatted string) string {
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
