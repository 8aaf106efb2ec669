// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/bahayahay/realty/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Track names accepted by FindTrack.
const (
	TrackInHouse    = "inHouse"
	TrackPagibig    = "pagibig"
	TrackPagibigMax = "pagibigMax"
	TrackRemaining  = "remaining"
	TrackBank       = "bank"
)

// Decimal parses s and panics on malformed input.
func Decimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SampleRates returns the default rate tables. DefaultRates builds new maps
// on every call, so callers may mutate the result.
func SampleRates() estimate.RateConfig {
	return estimate.DefaultRates()
}

// SampleEstimate computes an estimate against the default rates and fails
// the test when the request is rejected.
func SampleEstimate(t testing.TB, price string, option estimate.PropertyOption, downPaymentPercent int) *estimate.Estimate {
	t.Helper()
	est := estimate.Compute(estimate.Request{
		Price:              Decimal(price),
		PropertyOption:     option,
		DownPaymentPercent: downPaymentPercent,
	}, SampleRates())
	if est == nil {
		t.Fatalf("estimate rejected for price %s", price)
	}
	return est
}

// FindTrack finds a financing track by name in an estimate.
// Returns a pointer to the track if present, nil otherwise.
func FindTrack(est *estimate.Estimate, name string) *estimate.Track {
	if est == nil {
		return nil
	}
	switch name {
	case TrackInHouse:
		return &est.InHouse
	case TrackPagibig:
		return &est.Pagibig
	case TrackPagibigMax:
		return est.PagibigMax
	case TrackRemaining:
		return est.Remaining
	case TrackBank:
		return &est.Bank
	default:
		return nil
	}
}

// EqualDecimal reports whether got equals the decimal literal want.
func EqualDecimal(want string, got decimal.Decimal) bool {
	return Decimal(want).Equal(got)
}

// EqualCurrency reports whether got agrees with the decimal literal want to
// the centavo.
func EqualCurrency(want string, got decimal.Decimal) bool {
	return mathutil.WithinCurrencyTolerance(Decimal(want), got)
}
