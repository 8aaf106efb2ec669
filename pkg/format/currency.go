// Package format renders money and percentages for display.
package format

import (
	"fmt"
	"strings"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/bahayahay/realty/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PesoSign prefixes every rendered amount.
const PesoSign = "₱"

var printer = message.NewPrinter(language.English)

// Peso returns a currency string with a peso sign and thousands separators (e.g., "-₱1,234.56").
func Peso(amount decimal.Decimal) string {
	formatted := formatPositive(amount.Abs())
	if mathutil.Round(amount).IsNegative() {
		return "-" + PesoSign + formatted
	}
	return PesoSign + formatted
}

// Percent renders a whole-number percentage (e.g., "20%").
func Percent(percent int) string {
	return fmt.Sprintf("%d%%", percent)
}

// Years renders a loan term (e.g., "1 year", "15 years").
func Years(term int) string {
	if term == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", term)
}

// formatPositive rounds half away from zero to centavos. The integer part is
// grouped by the printer; the fraction comes from the decimal itself so no
// float conversion is involved.
func formatPositive(value decimal.Decimal) string {
	fixed := value.StringFixed(constants.CurrencyPlaces)
	parts := strings.SplitN(fixed, ".", 2)
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	intPart := mathutil.Round(value).Truncate(0)
	return printer.Sprintf("%d", intPart.IntPart()) + "." + decPart
}
