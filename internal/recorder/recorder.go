package recorder

import (
	"context"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// Recorder persists analysis runs for later inspection.
type Recorder interface {
	RecordRun(ctx context.Context, run *model.Run) error
	Close() error
}

// SnapshotRow is one successfully analysed instrument. Nil pointers are
// stored as NULL.
type SnapshotRow struct {
	Symbol      string
	Name        string
	Price       *float64
	PriceSource string
	MA50        *float64
	MA200       *float64
	RSI         *float64
	High52w     *float64
	Low52w      *float64
	Position52w *float64
	Decision    string
	Bars        int
}

// AlertRow is one fired threshold alert.
type AlertRow struct {
	Symbol    string
	Kind      string
	Observed  float64
	Threshold float64
}

// FailureRow is one instrument whose task ended in an error.
type FailureRow struct {
	Symbol string
	Error  string
}

// RunRows is the flattened form of a run shared by the SQL recorders.
type RunRows struct {
	Snapshots []SnapshotRow
	Alerts    []AlertRow
	Failures  []FailureRow
}

// Flatten converts a run into table rows.
func Flatten(run *model.Run) RunRows {
	var rows RunRows
	for _, res := range run.Results {
		if res.Err != nil || res.Analysis == nil {
			msg := "no analysis"
			if res.Err != nil {
				msg = res.Err.Error()
			}
			rows.Failures = append(rows.Failures, FailureRow{Symbol: res.Symbol, Error: msg})
			continue
		}

		a := res.Analysis
		snap := a.Snapshot
		rows.Snapshots = append(rows.Snapshots, SnapshotRow{
			Symbol:      res.Symbol,
			Name:        snap.Name,
			Price:       ptr(snap.CurrentPrice),
			PriceSource: string(snap.PriceSource),
			MA50:        ptr(a.Indicators.LatestSMAShort),
			MA200:       ptr(a.Indicators.LatestSMALong),
			RSI:         ptr(a.Indicators.LatestRSI),
			High52w:     ptr(snap.High52w),
			Low52w:      ptr(snap.Low52w),
			Position52w: ptr(calculator.PositionInRange(snap.CurrentPrice, snap.High52w, snap.Low52w)),
			Decision:    a.Classification.Label(),
			Bars:        snap.Series.Len(),
		})
		for _, evt := range a.Alerts {
			rows.Alerts = append(rows.Alerts, AlertRow{
				Symbol:    evt.Symbol,
				Kind:      string(evt.Kind),
				Observed:  evt.Observed,
				Threshold: evt.Threshold,
			})
		}
	}
	return rows
}

func ptr(v model.Value) *float64 {
	x, ok := v.Get()
	if !ok {
		return nil
	}
	return &x
}

// Open picks the recorder for the configured backend: Postgres when a DSN
// is set, else SQLite when a path is set, else a no-op.
func Open(ctx context.Context, sqlitePath, postgresDSN string) (Recorder, error) {
	switch {
	case postgresDSN != "":
		return NewPostgresRecorder(ctx, postgresDSN)
	case sqlitePath != "":
		return NewSQLiteRecorder(sqlitePath)
	default:
		return NewNoopRecorder(), nil
	}
}
