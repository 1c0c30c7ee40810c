// Package report turns per-instrument results into summary rows and writes
// them as CSV files and HTML charts.
package report

import (
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// SummaryHeader is the column order of the summary table.
var SummaryHeader = []string{"Ticker", "Stock Name", "Current Price", "50-Day MA", "200-Day MA", "RSI", "Decision"}

// Row is the structured summary of one instrument. Undefined values stay
// undefined here; only the formatting helpers turn them into markers.
type Row struct {
	Symbol         string
	Name           string
	Price          model.Value
	PriceSource    model.PriceSource
	MA50           model.Value
	MA200          model.Value
	RSI            model.Value
	High52w        model.Value
	Low52w         model.Value
	Position52w    model.Value
	Classification model.Classification
	Alerts         []model.AlertEvent
	Notices        []model.Notice
}

// Failure is an instrument that could not be analysed.
type Failure struct {
	Symbol string
	Err    error
}

// Summary is the aggregate of one pass, rows in input order.
type Summary struct {
	Rows     []Row
	Failures []Failure
}

// NewRow builds the summary row of one analysis.
func NewRow(a *model.InstrumentAnalysis) Row {
	snap := a.Snapshot
	name := snap.Name
	if name == "" {
		name = model.NameUnavailable
	}
	return Row{
		Symbol:         snap.Series.Symbol,
		Name:           name,
		Price:          snap.CurrentPrice,
		PriceSource:    snap.PriceSource,
		MA50:           a.Indicators.LatestSMAShort,
		MA200:          a.Indicators.LatestSMALong,
		RSI:            a.Indicators.LatestRSI,
		High52w:        snap.High52w,
		Low52w:         snap.Low52w,
		Position52w:    calculator.PositionInRange(snap.CurrentPrice, snap.High52w, snap.Low52w),
		Classification: a.Classification,
		Alerts:         a.Alerts,
		Notices:        a.Notices,
	}
}

// Assemble aggregates results. Failed instruments are listed separately and
// never produce a row.
func Assemble(results []model.InstrumentResult) Summary {
	var s Summary
	for _, res := range results {
		if res.Err != nil || res.Analysis == nil {
			s.Failures = append(s.Failures, Failure{Symbol: res.Symbol, Err: res.Err})
			continue
		}
		s.Rows = append(s.Rows, NewRow(res.Analysis))
	}
	return s
}

// Strings renders the row cells in SummaryHeader order.
func (r Row) Strings() []string {
	return []string{
		r.Symbol,
		r.Name,
		FormatPrice(r.Price),
		FormatMoney(r.MA50),
		FormatMoney(r.MA200),
		FormatRSI(r.RSI),
		r.Classification.Label(),
	}
}
