package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

func analysisFixture(symbol string, price model.Value) *model.InstrumentAnalysis {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, 3)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return &model.InstrumentAnalysis{
		Snapshot: &model.MarketSnapshot{
			Series:       model.PriceSeries{Symbol: symbol, Bars: bars},
			Name:         "Example Corp",
			CurrentPrice: price,
			PriceSource:  model.PriceFromQuote,
			High52w:      model.Some(110),
			Low52w:       model.Some(90),
		},
		Indicators: &model.MarketIndicators{
			SMAShort:       model.IndicatorSeries{model.None(), model.Some(100.5), model.Some(101.5)},
			SMALong:        model.IndicatorSeries{model.None(), model.None(), model.None()},
			RSI:            model.IndicatorSeries{model.None(), model.None(), model.Some(0)},
			LatestSMAShort: model.Some(101.5),
			LatestRSI:      model.Some(0),
		},
		Classification: model.Classification{Trend: model.TrendUndefined, Momentum: model.MomentumOversold},
	}
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$123.45", FormatPrice(model.Some(123.454)))
	assert.Equal(t, "$0.00", FormatPrice(model.Some(0)))
	assert.Equal(t, NotAvailable, FormatPrice(model.None()))

	assert.Equal(t, "$150.13", FormatMoney(model.Some(150.125)))
	assert.Equal(t, InsufficientData, FormatMoney(model.None()))

	assert.Equal(t, "0.00", FormatRSI(model.Some(0)))
	assert.Equal(t, "55.12", FormatRSI(model.Some(55.123)))
	assert.Equal(t, InsufficientData, FormatRSI(model.None()))

	assert.Equal(t, "50%", FormatPercent(model.Some(0.5)))
	assert.Equal(t, NotAvailable, FormatPercent(model.None()))
}

func TestAssemble_KeepsOrderAndListsFailures(t *testing.T) {
	boom := errors.New("fetch failed")
	results := []model.InstrumentResult{
		{Symbol: "AAA", Analysis: analysisFixture("AAA", model.Some(101))},
		{Symbol: "BBB", Err: boom},
		{Symbol: "CCC", Analysis: analysisFixture("CCC", model.None())},
	}

	s := Assemble(results)

	require.Len(t, s.Rows, 2)
	assert.Equal(t, "AAA", s.Rows[0].Symbol)
	assert.Equal(t, "CCC", s.Rows[1].Symbol)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "BBB", s.Failures[0].Symbol)
	assert.ErrorIs(t, s.Failures[0].Err, boom)
}

func TestRowStrings_DefinedZeroIsAValue(t *testing.T) {
	row := NewRow(analysisFixture("ZERO", model.Some(101)))

	cells := row.Strings()
	require.Len(t, cells, len(SummaryHeader))
	assert.Equal(t, []string{
		"ZERO", "Example Corp", "$101.00", "$101.50", InsufficientData, "0.00",
		"Hold/Sideways (Strong Buy - Oversold)",
	}, cells)
	assert.Equal(t, "55%", FormatPercent(row.Position52w))
}

func TestNewRow_MissingName(t *testing.T) {
	a := analysisFixture("X", model.None())
	a.Snapshot.Name = ""
	row := NewRow(a)
	assert.Equal(t, model.NameUnavailable, row.Name)
	assert.Equal(t, NotAvailable, row.Strings()[2])
}

func TestWriteSummaryCSV(t *testing.T) {
	s := Assemble([]model.InstrumentResult{{Symbol: "AAA", Analysis: analysisFixture("AAA", model.Some(101))}})

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, s))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, SummaryHeader, recs[0])
	assert.Equal(t, "AAA", recs[1][0])
}

func TestWriteHistoryCSV_UndefinedIsEmpty(t *testing.T) {
	a := analysisFixture("AAA", model.Some(101))

	var buf bytes.Buffer
	require.NoError(t, WriteHistoryCSV(&buf, &a.Snapshot.Series, a.Indicators))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, HistoryHeader, recs[0])
	assert.Equal(t, []string{"2024-01-02", "100", "101", "99", "100", "1000", "", "", ""}, recs[1])
	assert.Equal(t, []string{"2024-01-04", "102", "103", "101", "102", "1000", "101.5", "", "0"}, recs[3])
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "AAPL_historical_data.csv", HistoryFileName("AAPL"))
	assert.Equal(t, "BRK-B_historical_data.csv", HistoryFileName("BRK/B"))
	assert.Equal(t, "AAPL_chart.html", ChartFileName("AAPL"))
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	a := analysisFixture("AAA", model.Some(101))

	path, err := WriteHistoryFile(dir, a)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "AAA_historical_data.csv"))

	path, err = WriteSummaryFile(dir, Assemble([]model.InstrumentResult{{Symbol: "AAA", Analysis: a}}))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, SummaryFileName))

	path, err = WriteChartFile(dir, a)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "AAA_chart.html"))
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, analysisFixture("AAA", model.Some(101))))
	out := buf.String()
	assert.Contains(t, out, "50_MA")
	assert.Contains(t, out, "RSI")
}

func TestWriteRun(t *testing.T) {
	dir := t.TempDir()
	results := []model.InstrumentResult{
		{Symbol: "AAA", Analysis: analysisFixture("AAA", model.Some(101))},
		{Symbol: "BAD", Err: errors.New("boom")},
	}

	s, err := WriteRun(dir, results, true)
	require.NoError(t, err)
	assert.Len(t, s.Rows, 1)
	assert.Len(t, s.Failures, 1)

	for _, name := range []string{"AAA_historical_data.csv", "AAA_chart.html", SummaryFileName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "BAD_historical_data.csv"))
}
