// Package mathutil provides common decimal helpers for currency values.
package mathutil

import (
	"github.com/bahayahay/realty/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	tolerance = decimal.RequireFromString(constants.CurrencyTolerance)
	hundred   = decimal.NewFromInt(constants.PercentageMultiplier)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for display and logical comparisons, never inside the estimate engine.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tol decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tol)
}

// WithinCurrencyTolerance checks if two values agree to the centavo
func WithinCurrencyTolerance(val1, val2 decimal.Decimal) bool {
	return WithinTolerance(val1, val2, tolerance)
}

// ApplyPercentage applies a whole-number percentage to a value: value × (pct / 100).
func ApplyPercentage(value decimal.Decimal, percentage int) decimal.Decimal {
	return value.Mul(decimal.NewFromInt(int64(percentage)).Div(hundred))
}
