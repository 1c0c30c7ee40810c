package recorder

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

func sampleRun() *model.Run {
	start := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	snap := &model.MarketSnapshot{
		Series: model.PriceSeries{Symbol: "AAPL", Bars: []model.OHLCV{
			{Time: start.AddDate(0, 0, -1), Close: 170},
			{Time: start, Close: 172},
		}},
		Name:         "Apple Inc.",
		CurrentPrice: model.Some(172),
		PriceSource:  model.PriceFromQuote,
		High52w:      model.Some(200),
		Low52w:       model.Some(150),
	}
	analysis := &model.InstrumentAnalysis{
		Snapshot: snap,
		Indicators: &model.MarketIndicators{
			LatestSMAShort: model.Some(168),
			LatestRSI:      model.Some(0),
		},
		Classification: model.Classification{Trend: model.TrendUndefined, Momentum: model.MomentumOversold},
		Alerts: []model.AlertEvent{
			{Kind: model.AlertRSILow, Symbol: "AAPL", Observed: 0, Threshold: 30},
		},
	}
	return &model.Run{
		ID:         "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Thresholds: model.Thresholds{RSILow: 30, RSIHigh: 70, PriceLow: 100, PriceHigh: 200},
		Results: []model.InstrumentResult{
			{Symbol: "AAPL", Analysis: analysis},
			{Symbol: "BAD", Err: errors.New("no data")},
		},
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleRun())

	require.Len(t, rows.Snapshots, 1)
	s := rows.Snapshots[0]
	assert.Equal(t, "AAPL", s.Symbol)
	require.NotNil(t, s.RSI)
	assert.Equal(t, 0.0, *s.RSI)
	assert.Nil(t, s.MA200)
	require.NotNil(t, s.Position52w)
	assert.InDelta(t, 0.44, *s.Position52w, 1e-9)
	assert.Equal(t, 2, s.Bars)

	require.Len(t, rows.Alerts, 1)
	assert.Equal(t, "RSI_LOW", rows.Alerts[0].Kind)
	require.Len(t, rows.Failures, 1)
	assert.Equal(t, FailureRow{Symbol: "BAD", Error: "no data"}, rows.Failures[0])
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.RecordRun(ctx, sampleRun()))

	var instruments, failures int
	require.NoError(t, r.db.QueryRow(`SELECT instruments, failures FROM analysis_runs WHERE run_id = ?`, "run-1").
		Scan(&instruments, &failures))
	assert.Equal(t, 2, instruments)
	assert.Equal(t, 1, failures)

	var rsi, ma200 sql.NullFloat64
	var decision string
	require.NoError(t, r.db.QueryRow(`SELECT rsi, ma200, decision FROM instrument_snapshots WHERE symbol = ?`, "AAPL").
		Scan(&rsi, &ma200, &decision))
	assert.True(t, rsi.Valid)
	assert.Equal(t, 0.0, rsi.Float64)
	assert.False(t, ma200.Valid)
	assert.Equal(t, "Hold/Sideways (Strong Buy - Oversold)", decision)

	var alerts int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM alert_events`).Scan(&alerts))
	assert.Equal(t, 1, alerts)

	var failMsg string
	require.NoError(t, r.db.QueryRow(`SELECT error FROM instrument_failures WHERE symbol = ?`, "BAD").Scan(&failMsg))
	assert.Equal(t, "no data", failMsg)
}

func TestSQLiteRecorder_DuplicateRunRollsBack(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.RecordRun(ctx, sampleRun()))
	assert.Error(t, r.RecordRun(ctx, sampleRun()))

	var snapshots int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM instrument_snapshots`).Scan(&snapshots))
	assert.Equal(t, 1, snapshots)
}

func TestOpen_Noop(t *testing.T) {
	r, err := Open(context.Background(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &NoopRecorder{}, r)
	assert.NoError(t, r.RecordRun(context.Background(), sampleRun()))
	assert.NoError(t, r.Close())
}
