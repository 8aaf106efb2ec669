package mathutil

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Round up at midpoint", "1.235", "1.24"},
		{"Round down below midpoint", "1.234", "1.23"},
		{"No rounding needed", "1.23", "1.23"},
		{"Large number", "12345.678", "12345.68"},
		{"Negative number round away at midpoint", "-1.235", "-1.24"},
		{"Negative number round down", "-1.234", "-1.23"},
		{"Zero", "0", "0"},
		{"Very small positive", "0.001", "0"},
		{"Factor rate monthly", "13718.765864002752", "13718.77"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(d(tt.input))
			if !result.Equal(d(tt.expected)) {
				t.Errorf("Round(%s) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinCurrencyTolerance(t *testing.T) {
	if !WithinCurrencyTolerance(d("34296.91466000688"), d("34296.92")) {
		t.Error("expected values one centavo apart to be within tolerance")
	}
	if WithinCurrencyTolerance(d("100.00"), d("100.02")) {
		t.Error("expected values two centavos apart to be outside tolerance")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(d("100"), d("100.5"), d("0.5")) {
		t.Error("expected values half a peso apart to be within a 0.5 tolerance")
	}
	if WithinTolerance(d("100"), d("101"), d("0.5")) {
		t.Error("expected values one peso apart to be outside a 0.5 tolerance")
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		value    string
		pct      int
		expected string
	}{
		{"2000000", 20, "400000"},
		{"3488000", 25, "872000"},
		{"1234567.89", 35, "432098.7615"},
		{"1000", 0, "0"},
	}

	for _, tt := range tests {
		if got := ApplyPercentage(d(tt.value), tt.pct); !got.Equal(d(tt.expected)) {
			t.Errorf("ApplyPercentage(%s, %d) = %s, expected %s", tt.value, tt.pct, got, tt.expected)
		}
	}
}
