package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"StockSentinel/internal/model"
)

// ChartFileName returns the HTML chart file name for symbol.
func ChartFileName(symbol string) string {
	return safeName(symbol) + "_chart.html"
}

// missing is how echarts expects a gap in a line series.
const missing = "-"

func lineData(s model.IndicatorSeries) []opts.LineData {
	out := make([]opts.LineData, len(s))
	for i, v := range s {
		if x, ok := v.Get(); ok {
			out[i] = opts.LineData{Value: x}
		} else {
			out[i] = opts.LineData{Value: missing}
		}
	}
	return out
}

func closeData(series *model.PriceSeries) []opts.LineData {
	out := make([]opts.LineData, len(series.Bars))
	for i, b := range series.Bars {
		out[i] = opts.LineData{Value: b.Close}
	}
	return out
}

func constLine(n int, v float64) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

// RenderChart writes an HTML page with the close price and both moving
// averages on one chart and RSI with its 30/70 guide lines below.
func RenderChart(w io.Writer, a *model.InstrumentAnalysis) error {
	series := &a.Snapshot.Series
	dates := make([]string, len(series.Bars))
	for i, b := range series.Bars {
		dates[i] = b.Date()
	}

	price := charts.NewLine()
	price.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px", Theme: types.ThemeInfographic}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s", series.Symbol, a.Snapshot.Name),
			Subtitle: a.Classification.Label(),
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)
	price.SetXAxis(dates).
		AddSeries("Close", closeData(series)).
		AddSeries("50_MA", lineData(a.Indicators.SMAShort)).
		AddSeries("200_MA", lineData(a.Indicators.SMALong))

	rsi := charts.NewLine()
	rsi.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "250px", Theme: types.ThemeInfographic}),
		charts.WithTitleOpts(opts.Title{Title: "RSI"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100}),
	)
	rsi.SetXAxis(dates).
		AddSeries("RSI", lineData(a.Indicators.RSI)).
		AddSeries("Oversold", constLine(len(dates), 30)).
		AddSeries("Overbought", constLine(len(dates), 70))

	page := components.NewPage()
	page.PageTitle = series.Symbol
	page.AddCharts(price, rsi)
	return page.Render(w)
}

// WriteChartFile renders the chart of one analysis into dir and returns its path.
func WriteChartFile(dir string, a *model.InstrumentAnalysis) (string, error) {
	path := filepath.Join(dir, ChartFileName(a.Snapshot.Series.Symbol))
	err := writeFile(path, func(w io.Writer) error {
		return RenderChart(w, a)
	})
	return path, err
}
