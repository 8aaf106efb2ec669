package estimate

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

func assertNear(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	diff := dec(expected).Sub(actual).Abs()
	assert.Truef(t, diff.LessThanOrEqual(dec("0.01")), "expected %s ±0.01, got %s", expected, actual)
}

func allTracks(e *Estimate) map[string]Track {
	tracks := map[string]Track{
		"inHouse": e.InHouse,
		"pagibig": e.Pagibig,
		"bank":    e.Bank,
	}
	if e.PagibigMax != nil {
		tracks["pagibigMax"] = *e.PagibigMax
	}
	if e.Remaining != nil {
		tracks["remaining"] = *e.Remaining
	}
	return tracks
}

func TestCompute_ScenarioA_Option1(t *testing.T) {
	est := Compute(Request{Price: dec("2000000"), PropertyOption: NURHouseLot, DownPaymentPercent: 20}, DefaultRates())
	require.NotNil(t, est)

	assertDecimal(t, "400000", est.DownPaymentAmount)
	assertDecimal(t, "25000", est.ReservationFee)
	assertDecimal(t, "31250", est.Option1.Monthly)
	assertDecimal(t, "78125", est.Option1.RequiredIncome)
}

func TestCompute_ScenarioB_InHouse15Years(t *testing.T) {
	est := Compute(Request{Price: dec("2000000"), PropertyOption: NURHouseLot, DownPaymentPercent: 20}, DefaultRates())
	require.NotNil(t, est)

	assertDecimal(t, "1600000", est.Balance)
	assertDecimal(t, "13718.765864002752", est.InHouse.Monthly[15])
	assertNear(t, "13718.77", est.InHouse.Monthly[15])
	// Required income follows the unrounded monthly amount.
	assertDecimal(t, "34296.91466000688", est.InHouse.RequiredIncome[15])
}

func TestCompute_ScenarioC_RemainingForDeveloper(t *testing.T) {
	est := Compute(Request{Price: dec("3000000"), PropertyOption: NURLotOnly, DownPaymentPercent: 20}, DefaultRates())
	require.NotNil(t, est)

	assertDecimal(t, "2400000", est.Balance)
	require.NotNil(t, est.PagibigMaxLoan)
	assertDecimal(t, "1000000", *est.PagibigMaxLoan)
	assert.True(t, est.HasRemainingAmount)
	assertDecimal(t, "1400000", est.RemainingForDeveloper)

	require.NotNil(t, est.Remaining)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, est.Remaining.Terms())
	assertDecimal(t, "122107.69544412936", est.Remaining.Monthly[1])

	require.NotNil(t, est.PagibigMax)
	assertDecimal(t, "19449.2616841368", est.PagibigMax.Monthly[5])
}

func TestCompute_ScenarioD_NoMaxLoan(t *testing.T) {
	rates := DefaultRates()
	rates.PagibigMaxLoan[PalmHouseLot] = nil

	for _, price := range []string{"500000", "9000000", "80000000"} {
		est := Compute(Request{Price: dec(price), PropertyOption: PalmHouseLot, DownPaymentPercent: 20}, rates)
		require.NotNil(t, est)

		assert.False(t, est.HasRemainingAmount, "price %s", price)
		assert.Nil(t, est.PagibigMaxLoan, "price %s", price)
		assert.Nil(t, est.PagibigMax, "price %s", price)
		assert.Nil(t, est.Remaining, "price %s", price)
		assert.True(t, est.RemainingForDeveloper.IsZero(), "price %s", price)
	}
}

func TestCompute_MissingMaxLoanEntryMeansNoCap(t *testing.T) {
	rates := DefaultRates()
	delete(rates.PagibigMaxLoan, PalmLotOnly)

	est := Compute(Request{Price: dec("5000000"), PropertyOption: PalmLotOnly, DownPaymentPercent: 20}, rates)
	require.NotNil(t, est)
	assert.Nil(t, est.PagibigMax)
	assert.Nil(t, est.Remaining)
	assert.False(t, est.HasRemainingAmount)
}

func TestCompute_ThresholdAtMaxLoan(t *testing.T) {
	// 20% down on 1,250,000 leaves exactly the 1,000,000 cap.
	est := Compute(Request{Price: dec("1250000"), PropertyOption: NURLotOnly, DownPaymentPercent: 20}, DefaultRates())
	require.NotNil(t, est)

	assertDecimal(t, "1000000", est.Balance)
	assert.False(t, est.HasRemainingAmount)
	require.NotNil(t, est.Remaining, "remaining track is present when a cap exists")
	assert.True(t, est.Remaining.Empty())
	assert.True(t, est.RemainingForDeveloper.IsZero())
	require.NotNil(t, est.PagibigMax)
	assert.False(t, est.PagibigMax.Empty())

	above := Compute(Request{Price: dec("1250000.01"), PropertyOption: NURLotOnly, DownPaymentPercent: 20}, DefaultRates())
	require.NotNil(t, above)
	assert.True(t, above.HasRemainingAmount)
	assertDecimal(t, "0.008", above.RemainingForDeveloper)
}

func TestCompute_Option2(t *testing.T) {
	est := Compute(Request{Price: dec("2000000"), PropertyOption: NURHouseLot, DownPaymentPercent: 20}, DefaultRates())
	require.NotNil(t, est)

	twelve := decimal.NewFromInt(12)
	assert.True(t, dec("175000").Div(twelve).Equal(est.Option2.Year1Monthly))
	assertDecimal(t, "17443.95649201848", est.Option2.Year2WithInterest)
	assertDecimal(t, "43609.8912300462", est.Option2.Year2WithInterestRequiredIncome)
	assert.True(t, dec("200000").Div(twelve).Equal(est.Option2.Year2Waived))
}

func TestCompute_InvalidPriceReturnsNil(t *testing.T) {
	for _, price := range []string{"0", "-1", "-2500000"} {
		assert.Nil(t, Compute(Request{Price: dec(price), PropertyOption: NURHouseLot, DownPaymentPercent: 20}, DefaultRates()), "price %s", price)
	}
}

func TestCompute_UnknownOptionPanics(t *testing.T) {
	assert.Panics(t, func() {
		Compute(Request{Price: dec("1000000"), PropertyOption: "tower_condo", DownPaymentPercent: 20}, DefaultRates())
	})

	rates := DefaultRates()
	delete(rates.ReservationFees, NURLotOnly)
	assert.Panics(t, func() {
		Compute(Request{Price: dec("1000000"), PropertyOption: NURLotOnly, DownPaymentPercent: 20}, rates)
	})
}

func TestCompute_Determinism(t *testing.T) {
	req := Request{Price: dec("3488000"), PropertyOption: PalmHouseLot, DownPaymentPercent: 35}
	first := Compute(req, DefaultRates())
	second := Compute(req, DefaultRates())

	require.NotNil(t, first)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCompute_BalanceInvariant(t *testing.T) {
	rates := DefaultRates()
	prices := []string{"1", "999999.99", "2000000", "3488000", "12345678.91"}

	for _, price := range prices {
		for _, percent := range rates.DownPaymentPercentOptions {
			for _, option := range Options() {
				est := Compute(Request{Price: dec(price), PropertyOption: option, DownPaymentPercent: percent}, rates)
				require.NotNil(t, est)
				assert.Truef(t, est.Balance.Add(est.DownPaymentAmount).Equal(est.Price),
					"balance + down payment != price for %s at %d%% (%s)", price, percent, option)
			}
		}
	}
}

func TestCompute_RequiredIncomeInvariant(t *testing.T) {
	rates := DefaultRates()
	for _, option := range Options() {
		est := Compute(Request{Price: dec("4750000"), PropertyOption: option, DownPaymentPercent: 25}, rates)
		require.NotNil(t, est)

		assert.True(t, est.Option1.RequiredIncome.Equal(est.Option1.Monthly.Div(rates.RequiredIncomeDivisor)))
		assert.True(t, est.Option2.Year2WithInterestRequiredIncome.Equal(est.Option2.Year2WithInterest.Div(rates.RequiredIncomeDivisor)))

		for name, track := range allTracks(est) {
			assert.Len(t, track.RequiredIncome, len(track.Monthly), "%s/%s", option, name)
			for term, monthly := range track.Monthly {
				assert.Truef(t, track.RequiredIncome[term].Equal(monthly.Div(rates.RequiredIncomeDivisor)),
					"%s/%s term %d", option, name, term)
			}
		}
	}
}

func TestCompute_TrackTermsFollowTables(t *testing.T) {
	rates := DefaultRates()
	est := Compute(Request{Price: dec("6000000"), PropertyOption: PalmHouseLot, DownPaymentPercent: 20}, rates)
	require.NotNil(t, est)

	assert.Equal(t, []int{5, 10, 15}, est.InHouse.Terms())
	assert.Equal(t, []int{5, 10, 15, 20, 25, 30}, est.Pagibig.Terms())
	assert.Equal(t, []int{5, 10, 15, 20, 25, 30}, est.PagibigMax.Terms())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, est.Remaining.Terms())
	assert.Equal(t, []int{5, 10, 15}, est.Bank.Terms())

	assertDecimal(t, "96182.1552", est.Bank.Monthly[5])
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  string
	}{
		{"2000000", true, "2000000"},
		{" 3,488,000.50 ", true, "3488000.5"},
		{"0.01", true, "0.01"},
		{"0", false, ""},
		{"-100", false, ""},
		{"", false, ""},
		{"NaN", false, ""},
		{"Infinity", false, ""},
		{"two million", false, ""},
		{"1000000000000", true, "1000000000000"},
		{"1,000,000,000,000.01", false, ""},
		{"1e6", false, ""},
		{"1e5000000", false, ""},
		{"2E+6", false, ""},
		{"0x1E8480", false, ""},
		{"+2000000", false, ""},
		{".5", false, ""},
		{"2000000.", false, ""},
		{"2000000.125", false, ""},
		{"0.00", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			price, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assertDecimal(t, tt.want, price)
			}
		})
	}
}
