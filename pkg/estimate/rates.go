package estimate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/shopspring/decimal"
)

// FactorRateTable maps a loan term in years to the multiplier that turns a
// principal into a monthly payment.
type FactorRateTable map[int]decimal.Decimal

// Terms returns the configured terms in ascending order.
func (t FactorRateTable) Terms() []int {
	terms := make([]int, 0, len(t))
	for term := range t {
		terms = append(terms, term)
	}
	sort.Ints(terms)
	return terms
}

// RateConfig is the configuration snapshot the engine reads. It is never
// mutated by the engine; callers own caching and reloads.
type RateConfig struct {
	ReservationFees            map[PropertyOption]decimal.Decimal  `yaml:"reservationFees" mapstructure:"reservationFees"`
	PagibigMaxLoan             map[PropertyOption]*decimal.Decimal `yaml:"pagibigMaxLoan" mapstructure:"pagibigMaxLoan"`
	DownPaymentPercentOptions  []int                               `yaml:"downPaymentPercentOptions" mapstructure:"downPaymentPercentOptions"`
	InHouseFactorRates         FactorRateTable                     `yaml:"inHouseFactorRates" mapstructure:"inHouseFactorRates"`
	PagibigFactorRates         FactorRateTable                     `yaml:"pagibigFactorRates" mapstructure:"pagibigFactorRates"`
	RemainingAmountFactorRates FactorRateTable                     `yaml:"remainingAmountFactorRates" mapstructure:"remainingAmountFactorRates"`
	BankFactorRates            FactorRateTable                     `yaml:"bankFactorRates" mapstructure:"bankFactorRates"`
	Year2InterestRate          decimal.Decimal                     `yaml:"year2InterestRate" mapstructure:"year2InterestRate"`
	RequiredIncomeDivisor      decimal.Decimal                     `yaml:"requiredIncomeDivisor" mapstructure:"requiredIncomeDivisor"`
}

func mustTable(rates map[int]string) FactorRateTable {
	table := make(FactorRateTable, len(rates))
	for term, rate := range rates {
		table[term] = decimal.RequireFromString(rate)
	}
	return table
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// DefaultRates returns the production rate tables.
func DefaultRates() RateConfig {
	return RateConfig{
		ReservationFees: map[PropertyOption]decimal.Decimal{
			NURLotOnly:   decimal.NewFromInt(10000),
			NURHouseLot:  decimal.NewFromInt(25000),
			PalmLotOnly:  decimal.NewFromInt(25000),
			PalmHouseLot: decimal.NewFromInt(50000),
		},
		PagibigMaxLoan: map[PropertyOption]*decimal.Decimal{
			NURLotOnly:   amount("1000000"),
			NURHouseLot:  amount("2500000"),
			PalmLotOnly:  amount("1600000"),
			PalmHouseLot: amount("4000000"),
		},
		DownPaymentPercentOptions: []int{20, 25, 30, 35, 40, 50},
		InHouseFactorRates: mustTable(map[int]string{
			5:  "0.0123985688874511",
			10: "0.00984739557925592",
			15: "0.00857422866500172",
		}),
		PagibigFactorRates: mustTable(map[int]string{
			5:  "0.0194492616841368",
			10: "0.0112280096866691",
			15: "0.00857422866500172",
			20: "0.00730928202377572",
			25: "0.00659669378315046",
			30: "0.00615717200426394",
		}),
		RemainingAmountFactorRates: mustTable(map[int]string{
			1: "0.0872197824600924",
			2: "0.0454556748813859",
			3: "0.0315675374235573",
			4: "0.0246483033588356",
			5: "0.0205165313270512",
		}),
		BankFactorRates: mustTable(map[int]string{
			5:  "0.020037949",
			10: "0.0118701769135854",
			15: "0.00927012360002734",
		}),
		Year2InterestRate:     decimal.RequireFromString("0.0872197824600924"),
		RequiredIncomeDivisor: decimal.RequireFromString(constants.RequiredIncomeDivisor),
	}
}

// AllowsDownPayment reports whether percent is one of the configured choices.
func (rc RateConfig) AllowsDownPayment(percent int) bool {
	for _, option := range rc.DownPaymentPercentOptions {
		if option == percent {
			return true
		}
	}
	return false
}

// MaxLoan returns the Pag-IBIG cap for option, or nil when none applies.
func (rc RateConfig) MaxLoan(option PropertyOption) *decimal.Decimal {
	return rc.PagibigMaxLoan[option]
}

// Validate reports configuration gaps that would otherwise surface as a
// panic inside Compute.
func (rc RateConfig) Validate() error {
	var errs []error

	for _, option := range Options() {
		fee, ok := rc.ReservationFees[option]
		if !ok {
			errs = append(errs, fmt.Errorf("no reservation fee configured for %s", option))
			continue
		}
		if fee.IsNegative() {
			errs = append(errs, fmt.Errorf("reservation fee for %s must not be negative, got %s", option, fee))
		}
	}
	for option, maxLoan := range rc.PagibigMaxLoan {
		if !option.Valid() {
			errs = append(errs, fmt.Errorf("pagibig max loan configured for unknown property option %q", option))
		}
		if maxLoan != nil && !maxLoan.IsPositive() {
			errs = append(errs, fmt.Errorf("pagibig max loan for %s must be positive or null, got %s", option, maxLoan))
		}
	}
	for option := range rc.ReservationFees {
		if !option.Valid() {
			errs = append(errs, fmt.Errorf("reservation fee configured for unknown property option %q", option))
		}
	}

	if len(rc.DownPaymentPercentOptions) == 0 {
		errs = append(errs, errors.New("no down payment percent options configured"))
	}
	for _, percent := range rc.DownPaymentPercentOptions {
		if percent <= 0 || percent >= constants.PercentageMultiplier {
			errs = append(errs, fmt.Errorf("down payment percent %d must be between 1 and 99", percent))
		}
	}

	tables := []struct {
		name  string
		table FactorRateTable
	}{
		{"in-house", rc.InHouseFactorRates},
		{"pagibig", rc.PagibigFactorRates},
		{"remaining amount", rc.RemainingAmountFactorRates},
		{"bank", rc.BankFactorRates},
	}
	for _, tt := range tables {
		if len(tt.table) == 0 {
			errs = append(errs, fmt.Errorf("%s factor rate table is empty", tt.name))
			continue
		}
		for term, factor := range tt.table {
			if term <= 0 {
				errs = append(errs, fmt.Errorf("%s factor rate table has non-positive term %d", tt.name, term))
			}
			if !factor.IsPositive() {
				errs = append(errs, fmt.Errorf("%s factor rate for %d years must be positive, got %s", tt.name, term, factor))
			}
		}
	}

	if rc.Year2InterestRate.IsNegative() {
		errs = append(errs, fmt.Errorf("year 2 interest rate must not be negative, got %s", rc.Year2InterestRate))
	}
	if !rc.RequiredIncomeDivisor.IsPositive() {
		errs = append(errs, fmt.Errorf("required income divisor must be positive, got %s", rc.RequiredIncomeDivisor))
	}

	return errors.Join(errs...)
}
