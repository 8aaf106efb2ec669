// Package output provides utilities for formatting and displaying estimates.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/bahayahay/realty/pkg/format"
	"github.com/shopspring/decimal"
)

type trackRow struct {
	name  string
	track estimate.Track
}

func tracks(est *estimate.Estimate) []trackRow {
	rows := []trackRow{
		{"In-house financing", est.InHouse},
		{"Pag-IBIG financing", est.Pagibig},
	}
	if est.PagibigMax != nil {
		rows = append(rows, trackRow{"Pag-IBIG at max loan", *est.PagibigMax})
	}
	if est.HasRemainingAmount && est.Remaining != nil {
		rows = append(rows, trackRow{"Remaining for developer", *est.Remaining})
	}
	return append(rows, trackRow{"Bank financing", est.Bank})
}

// Write renders est to w in the given output format.
func Write(w io.Writer, outputFormat string, est *estimate.Estimate, mode estimate.Mode) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, est, mode)
	case constants.OutputFormatCSV:
		return CsvFormat(w, est, mode)
	case constants.OutputFormatJSON:
		return JSONFormat(w, est, mode)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, est *estimate.Estimate, mode estimate.Mode) error {
	detailed := mode != estimate.ModeSummary
	pw := &errWriter{w: w}

	pw.printf("--- Estimate for %s ---\n", est.PropertyOption.Label())
	pw.printf("Price                        | %s\n", format.Peso(est.Price))
	pw.printf("Down payment (%-4s)          | %s\n", format.Percent(est.DownPaymentPercent), format.Peso(est.DownPaymentAmount))
	pw.printf("Reservation fee              | %s\n", format.Peso(est.ReservationFee))
	pw.printf("Balance                      | %s\n", format.Peso(est.Balance))
	if est.PagibigMaxLoan != nil {
		pw.printf("Pag-IBIG max loan            | %s\n", format.Peso(*est.PagibigMaxLoan))
	}
	if est.HasRemainingAmount {
		pw.printf("Remaining for developer      | %s\n", format.Peso(est.RemainingForDeveloper))
	}

	pw.printf("\n--- Down payment option 1: 12 months, 0%% interest ---\n")
	pw.printf("Monthly                      | %s\n", format.Peso(est.Option1.Monthly))
	if detailed {
		pw.printf("Required income              | %s\n", format.Peso(est.Option1.RequiredIncome))
	}

	pw.printf("\n--- Down payment option 2: 10%% per year over 2 years ---\n")
	pw.printf("Year 1 monthly               | %s\n", format.Peso(est.Option2.Year1Monthly))
	pw.printf("Year 2 monthly with interest | %s\n", format.Peso(est.Option2.Year2WithInterest))
	if detailed {
		pw.printf("Required income              | %s\n", format.Peso(est.Option2.Year2WithInterestRequiredIncome))
	}
	pw.printf("Year 2 monthly, interest waived | %s\n", format.Peso(est.Option2.Year2Waived))

	for _, row := range tracks(est) {
		pw.printf("\n--- %s ---\n", row.name)
		if detailed {
			pw.printf("Term     | Monthly         | Required income\n")
			pw.printf("____     | _______         | _______________\n")
		} else {
			pw.printf("Term     | Monthly\n")
			pw.printf("____     | _______\n")
		}
		for _, term := range row.track.Terms() {
			if detailed {
				pw.printf("%-8s | %-15s | %s\n", format.Years(term), format.Peso(row.track.Monthly[term]), format.Peso(row.track.RequiredIncome[term]))
			} else {
				pw.printf("%-8s | %s\n", format.Years(term), format.Peso(row.track.Monthly[term]))
			}
		}
	}

	return pw.err
}

// CsvFormat outputs in comma-separated value format, one row per figure.
func CsvFormat(w io.Writer, est *estimate.Estimate, mode estimate.Mode) error {
	detailed := mode != estimate.ModeSummary
	cw := csv.NewWriter(w)

	header := []string{"section", "term", "monthly"}
	if detailed {
		header = append(header, "required income")
	}
	records := [][]string{header}

	record := func(section, term string, monthly, required decimal.Decimal) {
		row := []string{section, term, amount(monthly)}
		if detailed {
			row = append(row, amount(required))
		}
		records = append(records, row)
	}

	record("option1", "", est.Option1.Monthly, est.Option1.RequiredIncome)
	record("option2 year1", "", est.Option2.Year1Monthly, decimal.Zero)
	record("option2 year2 with interest", "", est.Option2.Year2WithInterest, est.Option2.Year2WithInterestRequiredIncome)
	record("option2 year2 waived", "", est.Option2.Year2Waived, decimal.Zero)
	for _, row := range tracks(est) {
		for _, term := range row.track.Terms() {
			record(row.name, strconv.Itoa(term), row.track.Monthly[term], row.track.RequiredIncome[term])
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// JSONFormat outputs the estimate in the requested mode as indented JSON.
func JSONFormat(w io.Writer, est *estimate.Estimate, mode estimate.Mode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(est.View(mode)); err != nil {
		return fmt.Errorf("failed to encode estimate: %w", err)
	}
	return nil
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(constants.CurrencyPlaces)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(formatStr string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, formatStr, args...)
}
