package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Scale multiplies v by unit. Scenario documents usually carry
// population and stock in thousands; a unit of 1000 converts demand to
// dwellings.
func Scale(v, unit float64) float64 {
	if unit == 0 || unit == 1 {
		return v
	}
	return decimal.NewFromFloat(v).Mul(decimal.NewFromFloat(unit)).InexactFloat64()
}

// RoundTo rounds v half away from zero to places decimal places.
func RoundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatNumber formats v rounded to a whole number with thousand separators.
// Example: FormatNumber(18247.6) returns "18,248".
func FormatNumber(v float64) string {
	return printer.Sprintf("%d", decimal.NewFromFloat(v).Round(0).IntPart())
}

// FormatSigned is FormatNumber with an explicit sign for positive values.
// Example: FormatSigned(1500) returns "+1,500".
func FormatSigned(v float64) string {
	s := FormatNumber(v)
	if decimal.NewFromFloat(v).Round(0).IsPositive() {
		return "+" + s
	}
	return s
}

// FormatFloat formats v with precision decimals and thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(v float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(v)
	}
	places := int32(precision) //nolint:gosec // precision is a small display width
	rounded := decimal.NewFromFloat(v).Round(places)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	_, frac, _ := strings.Cut(rounded.StringFixed(places), ".")
	return sign + printer.Sprintf("%d", rounded.IntPart()) + "." + frac
}

// FormatRate formats a rate as a percentage, e.g. 0.0025 as "0.25%".
func FormatRate(rate float64) string {
	const percent = 100
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(percent)).Round(2).String() + "%"
}
