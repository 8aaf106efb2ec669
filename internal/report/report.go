// Package report renders a quote as a printable HTML page.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/bahayahay/realty/internal/quote"
	"github.com/bahayahay/realty/pkg/datetime"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/bahayahay/realty/pkg/format"
)

// Company is the name printed in the report header.
const Company = "Aman Group of Companies"

//go:embed templates/*.tmpl
var templateFiles embed.FS

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"peso":    format.Peso,
	"percent": format.Percent,
}).ParseFS(templateFiles, "templates/report.html.tmpl"))

type termRow struct {
	Term           string
	Monthly        string
	RequiredIncome string
}

type trackView struct {
	Title string
	Rows  []termRow
}

type reportData struct {
	Company  string
	Date     string
	Quote    *quote.Quote
	Estimate *estimate.Estimate
	Tracks   []trackView
	Notes    []string
}

// RenderHTML writes the printable report for q to w.
func RenderHTML(w io.Writer, q *quote.Quote) error {
	if q == nil || q.Estimate == nil {
		return fmt.Errorf("report: quote has no estimate")
	}

	data := reportData{
		Company:  Company,
		Date:     datetime.ReportDate(q.GeneratedAt),
		Quote:    q,
		Estimate: q.Estimate,
		Tracks:   trackViews(q.Estimate),
		Notes:    notes(q.Estimate),
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func trackViews(est *estimate.Estimate) []trackView {
	views := []trackView{
		newTrackView("Monthly Amortization - In-House Bridge Financing", est.InHouse),
		newTrackView("Pag-IBIG Financing", est.Pagibig),
	}
	if est.PagibigMax != nil && est.PagibigMaxLoan != nil {
		title := fmt.Sprintf("Pag-IBIG Max Loanable (%s)", format.Peso(*est.PagibigMaxLoan))
		views = append(views, newTrackView(title, *est.PagibigMax))
	}
	if est.HasRemainingAmount && est.Remaining != nil {
		views = append(views, newTrackView("Outstanding Balance to Developer", *est.Remaining))
	}
	return append(views, newTrackView("Bank Financing", est.Bank))
}

func newTrackView(title string, track estimate.Track) trackView {
	view := trackView{Title: title}
	for _, term := range track.Terms() {
		view.Rows = append(view.Rows, termRow{
			Term:           format.Years(term),
			Monthly:        format.Peso(track.Monthly[term]),
			RequiredIncome: format.Peso(track.RequiredIncome[term]),
		})
	}
	return view
}

func notes(est *estimate.Estimate) []string {
	return []string{
		"This calculation is for estimation purposes only. Actual rates and terms may vary. Please consult with " + Company + " for accurate computations.",
		"Additional charges such as processing fees and documentary stamp taxes are not included in these calculations.",
		fmt.Sprintf("The reservation fee for %s is %s and is non-refundable but deductible from the total contract price.",
			est.PropertyOption.Label(), format.Peso(est.ReservationFee)),
		"Interest rates are subject to change without prior notice.",
		"Please consult with our sales representatives for the most current rates and terms.",
	}
}
