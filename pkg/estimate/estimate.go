// Package estimate computes financing estimates for a property: the down
// payment schedules, in-house, Pag-IBIG and bank amortizations, and the
// portion of the balance above the Pag-IBIG cap that is payable to the
// developer.
//
// Monthly payments are flat factor-rate products (principal × factor), not
// amortization schedules. Every required income figure is the monthly amount
// divided by RequiredIncomeDivisor. Nothing is rounded here; rounding is a
// display concern.
package estimate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/bahayahay/realty/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var (
	monthsPerYear          = decimal.NewFromInt(constants.MonthsPerYear)
	yearlyDownPaymentShare = decimal.RequireFromString(constants.YearlyDownPaymentShare)
)

// Request is the engine input.
type Request struct {
	Price              decimal.Decimal `json:"price"`
	PropertyOption     PropertyOption  `json:"propertyOption"`
	DownPaymentPercent int             `json:"downPaymentPercent"`
}

// Track holds one financing product's monthly payment and required income per
// term in years.
type Track struct {
	Monthly        map[int]decimal.Decimal `json:"monthly"`
	RequiredIncome map[int]decimal.Decimal `json:"requiredIncome"`
}

// Terms returns the track's terms in ascending order.
func (t Track) Terms() []int {
	return FactorRateTable(t.Monthly).Terms()
}

// Empty reports whether the track has no terms.
func (t Track) Empty() bool {
	return len(t.Monthly) == 0
}

// Option1 is the down payment paid monthly over twelve months at 0% interest.
type Option1 struct {
	Monthly        decimal.Decimal `json:"monthly"`
	RequiredIncome decimal.Decimal `json:"requiredIncome"`
}

// Option2 is the down payment spread over two years, 10% of the price each year.
type Option2 struct {
	Year1Monthly                    decimal.Decimal `json:"year1Monthly"`
	Year2WithInterest               decimal.Decimal `json:"year2WithInterest"`
	Year2WithInterestRequiredIncome decimal.Decimal `json:"year2WithInterestRequiredIncome"`
	Year2Waived                     decimal.Decimal `json:"year2Waived"`
}

// Estimate is the full-detail result of Compute.
//
// PagibigMax and Remaining are nil when the property option has no Pag-IBIG
// cap. Remaining is non-nil but empty when a cap exists and the balance does
// not exceed it.
type Estimate struct {
	Price                 decimal.Decimal  `json:"price"`
	PropertyOption        PropertyOption   `json:"propertyOption"`
	DownPaymentPercent    int              `json:"downPaymentPercent"`
	DownPaymentAmount     decimal.Decimal  `json:"downPaymentAmount"`
	ReservationFee        decimal.Decimal  `json:"reservationFee"`
	Balance               decimal.Decimal  `json:"balanceAmount"`
	Option1               Option1          `json:"option1"`
	Option2               Option2          `json:"option2"`
	InHouse               Track            `json:"inHouse"`
	Pagibig               Track            `json:"pagibig"`
	PagibigMaxLoan        *decimal.Decimal `json:"pagibigMaxLoanAmount"`
	PagibigMax            *Track           `json:"pagibigMax,omitempty"`
	HasRemainingAmount    bool             `json:"hasRemainingAmount"`
	RemainingForDeveloper decimal.Decimal  `json:"remainingForDeveloper"`
	Remaining             *Track           `json:"remaining,omitempty"`
	Bank                  Track            `json:"bank"`
}

var (
	plainPrice       = regexp.MustCompile(`^\d{1,15}(\.\d{1,2})?$`)
	maxContractPrice = decimal.RequireFromString(constants.MaxContractPrice)
)

// ParsePrice parses a user-entered contract price: digits with optional
// thousands separators and up to two decimal places, above zero and no more
// than MaxContractPrice. Anything else means Compute must not be called.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if !plainPrice.MatchString(cleaned) {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil || !price.IsPositive() || price.GreaterThan(maxContractPrice) {
		return decimal.Zero, false
	}
	return price, true
}

// Compute derives every financing track for req. It returns nil when the
// price is not positive. It panics when req.PropertyOption has no configured
// reservation fee, which is a configuration error rather than a runtime one.
func Compute(req Request, rates RateConfig) *Estimate {
	if !req.Price.IsPositive() {
		return nil
	}

	reservationFee, ok := rates.ReservationFees[req.PropertyOption]
	if !ok {
		panic(fmt.Sprintf("estimate: no reservation fee configured for property option %q", req.PropertyOption))
	}
	divisor := rates.RequiredIncomeDivisor

	downPayment := mathutil.ApplyPercentage(req.Price, req.DownPaymentPercent)
	balance := req.Price.Sub(downPayment)
	maxLoan := rates.MaxLoan(req.PropertyOption)

	est := &Estimate{
		Price:              req.Price,
		PropertyOption:     req.PropertyOption,
		DownPaymentPercent: req.DownPaymentPercent,
		DownPaymentAmount:  downPayment,
		ReservationFee:     reservationFee,
		Balance:            balance,
		PagibigMaxLoan:     maxLoan,
	}

	option1Monthly := downPayment.Sub(reservationFee).Div(monthsPerYear)
	est.Option1 = Option1{
		Monthly:        option1Monthly,
		RequiredIncome: option1Monthly.Div(divisor),
	}

	yearlyPayable := req.Price.Mul(yearlyDownPaymentShare)
	year2WithInterest := yearlyPayable.Mul(rates.Year2InterestRate)
	est.Option2 = Option2{
		Year1Monthly:                    yearlyPayable.Sub(reservationFee).Div(monthsPerYear),
		Year2WithInterest:               year2WithInterest,
		Year2WithInterestRequiredIncome: year2WithInterest.Div(divisor),
		Year2Waived:                     yearlyPayable.Div(monthsPerYear),
	}

	est.InHouse = computeTrack(balance, rates.InHouseFactorRates, divisor)
	est.Pagibig = computeTrack(balance, rates.PagibigFactorRates, divisor)

	if maxLoan != nil {
		pagibigMax := computeTrack(*maxLoan, rates.PagibigFactorRates, divisor)
		est.PagibigMax = &pagibigMax

		remaining := Track{
			Monthly:        map[int]decimal.Decimal{},
			RequiredIncome: map[int]decimal.Decimal{},
		}
		if balance.GreaterThan(*maxLoan) {
			est.HasRemainingAmount = true
			est.RemainingForDeveloper = balance.Sub(*maxLoan)
			remaining = computeTrack(est.RemainingForDeveloper, rates.RemainingAmountFactorRates, divisor)
		}
		est.Remaining = &remaining
	}

	est.Bank = computeTrack(balance, rates.BankFactorRates, divisor)

	return est
}

func computeTrack(principal decimal.Decimal, table FactorRateTable, divisor decimal.Decimal) Track {
	track := Track{
		Monthly:        make(map[int]decimal.Decimal, len(table)),
		RequiredIncome: make(map[int]decimal.Decimal, len(table)),
	}
	for term, factor := range table {
		monthly := principal.Mul(factor)
		track.Monthly[term] = monthly
		track.RequiredIncome[term] = monthly.Div(divisor)
	}
	return track
}
