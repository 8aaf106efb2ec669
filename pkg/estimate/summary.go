package estimate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects which shape of an estimate a caller receives.
type Mode string

const (
	// ModeSummary omits every required-income figure.
	ModeSummary Mode = "summary"
	// ModeDetailed includes required income for every payment.
	ModeDetailed Mode = "detailed"
)

// ParseMode maps a raw value to a Mode. Empty input selects ModeDetailed.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeDetailed:
		return ModeDetailed, nil
	case ModeSummary:
		return ModeSummary, nil
	default:
		return "", fmt.Errorf("expected mode of %s or %s, got %s", ModeSummary, ModeDetailed, value)
	}
}

// Schedule maps a term in years to a monthly payment.
type Schedule map[int]decimal.Decimal

// Terms returns the schedule's terms in ascending order.
func (s Schedule) Terms() []int {
	return FactorRateTable(s).Terms()
}

// Summary is the estimate without required-income figures.
type Summary struct {
	Price                 decimal.Decimal  `json:"price"`
	PropertyOption        PropertyOption   `json:"propertyOption"`
	DownPaymentPercent    int              `json:"downPaymentPercent"`
	DownPaymentAmount     decimal.Decimal  `json:"downPaymentAmount"`
	ReservationFee        decimal.Decimal  `json:"reservationFee"`
	Balance               decimal.Decimal  `json:"balanceAmount"`
	Option1Monthly        decimal.Decimal  `json:"option1Monthly"`
	Option2Year1Monthly   decimal.Decimal  `json:"option2Year1Monthly"`
	Option2Year2Interest  decimal.Decimal  `json:"option2Year2WithInterest"`
	Option2Year2Waived    decimal.Decimal  `json:"option2Year2Waived"`
	InHouse               Schedule         `json:"inHouseMonthly"`
	Pagibig               Schedule         `json:"pagibigMonthly"`
	PagibigMaxLoan        *decimal.Decimal `json:"pagibigMaxLoanAmount"`
	PagibigMax            *Schedule        `json:"pagibigMaxMonthly,omitempty"`
	HasRemainingAmount    bool             `json:"hasRemainingAmount"`
	RemainingForDeveloper decimal.Decimal  `json:"remainingForDeveloper"`
	Remaining             *Schedule        `json:"remainingAmountMonthly,omitempty"`
	Bank                  Schedule         `json:"bankMonthly"`
}

// Summary projects the estimate onto its summary shape.
func (e *Estimate) Summary() Summary {
	s := Summary{
		Price:                 e.Price,
		PropertyOption:        e.PropertyOption,
		DownPaymentPercent:    e.DownPaymentPercent,
		DownPaymentAmount:     e.DownPaymentAmount,
		ReservationFee:        e.ReservationFee,
		Balance:               e.Balance,
		Option1Monthly:        e.Option1.Monthly,
		Option2Year1Monthly:   e.Option2.Year1Monthly,
		Option2Year2Interest:  e.Option2.Year2WithInterest,
		Option2Year2Waived:    e.Option2.Year2Waived,
		InHouse:               schedule(e.InHouse),
		Pagibig:               schedule(e.Pagibig),
		PagibigMaxLoan:        e.PagibigMaxLoan,
		HasRemainingAmount:    e.HasRemainingAmount,
		RemainingForDeveloper: e.RemainingForDeveloper,
		Bank:                  schedule(e.Bank),
	}
	if e.PagibigMax != nil {
		pagibigMax := schedule(*e.PagibigMax)
		s.PagibigMax = &pagibigMax
	}
	if e.Remaining != nil {
		remaining := schedule(*e.Remaining)
		s.Remaining = &remaining
	}
	return s
}

// View returns the estimate in the requested shape, ready for encoding.
func (e *Estimate) View(mode Mode) interface{} {
	if mode == ModeSummary {
		return e.Summary()
	}
	return e
}

func schedule(t Track) Schedule {
	s := make(Schedule, len(t.Monthly))
	for term, monthly := range t.Monthly {
		s[term] = monthly
	}
	return s
}
