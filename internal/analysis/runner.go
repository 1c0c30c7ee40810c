package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"StockSentinel/internal/model"
	"StockSentinel/internal/observability"
)

// SnapshotSource fetches everything needed to analyse one symbol.
type SnapshotSource interface {
	Collect(ctx context.Context, symbol string) (*model.MarketSnapshot, error)
}

// Runner analyses a list of symbols. Every symbol is an independent task:
// a fetch error, a contract violation or even a panic in one task ends up in
// that task's result and never stops the others.
type Runner struct {
	Source     SnapshotSource
	Params     Params
	Workers    int
	Metrics    *observability.Metrics
	SourceName string

	now func() time.Time
}

// NewRunner creates a Runner with the given concurrency (minimum 1).
func NewRunner(src SnapshotSource, params Params, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{Source: src, Params: params, Workers: workers, now: time.Now}
}

// Run processes every symbol and returns results in input order.
func (r *Runner) Run(ctx context.Context, symbols []string) *model.Run {
	run := &model.Run{
		ID:         uuid.NewString(),
		StartedAt:  r.clock(),
		Thresholds: r.Params.Thresholds,
		Results:    make([]model.InstrumentResult, len(symbols)),
	}

	var g errgroup.Group
	g.SetLimit(r.workers())
	for i, sym := range symbols {
		g.Go(func() error {
			run.Results[i] = r.analyzeOne(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()

	run.FinishedAt = r.clock()
	r.Metrics.ObserveRun(run.StartedAt, run.FinishedAt)
	log.Printf("[INFO] run %s finished: %d symbols, %d failed", run.ID, len(symbols), len(run.Failed()))
	return run
}

func (r *Runner) analyzeOne(ctx context.Context, symbol string) (res model.InstrumentResult) {
	res.Symbol = symbol
	defer func() {
		if p := recover(); p != nil {
			res.Analysis = nil
			res.Err = fmt.Errorf("analyse %s: panic: %v", symbol, p)
		}
		if res.Err != nil {
			log.Printf("[ERROR] %v", res.Err)
		}
		r.Metrics.ObserveInstrument(res.Err)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("analyse %s: %w", symbol, err)
		return res
	}

	start := r.clock()
	snap, err := r.Source.Collect(ctx, symbol)
	r.Metrics.ObserveFetch(r.SourceName, r.clock().Sub(start))
	if err != nil {
		res.Err = fmt.Errorf("collect %s: %w", symbol, err)
		return res
	}

	a, err := Analyze(snap, r.Params)
	if err != nil {
		res.Err = fmt.Errorf("analyse %s: %w", symbol, err)
		return res
	}
	for _, evt := range a.Alerts {
		r.Metrics.ObserveAlert(string(evt.Kind))
	}
	res.Analysis = a
	return res
}

func (r *Runner) workers() int {
	if r.Workers < 1 {
		return 1
	}
	return r.Workers
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
