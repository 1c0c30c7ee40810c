package recorder

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"StockSentinel/internal/model"
)

// PostgresRecorder persists analysis runs to PostgreSQL with the same
// schema as SQLiteRecorder.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects, pings and runs migrations.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] postgres recorder connected: %s", config.ConnConfig.Host)
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			rsi_low     DOUBLE PRECISION,
			rsi_high    DOUBLE PRECISION,
			price_low   DOUBLE PRECISION,
			price_high  DOUBLE PRECISION,
			instruments INTEGER,
			failures    INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS instrument_snapshots (
			id            BIGSERIAL PRIMARY KEY,
			run_id        TEXT NOT NULL REFERENCES analysis_runs(run_id),
			symbol        TEXT NOT NULL,
			name          TEXT,
			current_price DOUBLE PRECISION,
			price_source  TEXT,
			ma50          DOUBLE PRECISION,
			ma200         DOUBLE PRECISION,
			rsi           DOUBLE PRECISION,
			high_52w      DOUBLE PRECISION,
			low_52w       DOUBLE PRECISION,
			position_52w  DOUBLE PRECISION,
			decision      TEXT,
			bars          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol ON instrument_snapshots(symbol, run_id)`,
		`CREATE TABLE IF NOT EXISTS alert_events (
			id        BIGSERIAL PRIMARY KEY,
			run_id    TEXT NOT NULL REFERENCES analysis_runs(run_id),
			symbol    TEXT NOT NULL,
			kind      TEXT NOT NULL,
			observed  DOUBLE PRECISION,
			threshold DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS instrument_failures (
			id     BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
			symbol TEXT NOT NULL,
			error  TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run and its rows as one batch inside a transaction.
func (r *PostgresRecorder) RecordRun(ctx context.Context, run *model.Run) error {
	rows := Flatten(run)
	th := run.Thresholds

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO analysis_runs
		(run_id, started_at, finished_at, rsi_low, rsi_high, price_low, price_high, instruments, failures)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.StartedAt, run.FinishedAt,
		th.RSILow, th.RSIHigh, th.PriceLow, th.PriceHigh,
		len(run.Results), len(rows.Failures),
	)
	for _, s := range rows.Snapshots {
		batch.Queue(`INSERT INTO instrument_snapshots
			(run_id, symbol, name, current_price, price_source, ma50, ma200, rsi,
			 high_52w, low_52w, position_52w, decision, bars)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			run.ID, s.Symbol, s.Name, s.Price, s.PriceSource, s.MA50, s.MA200, s.RSI,
			s.High52w, s.Low52w, s.Position52w, s.Decision, s.Bars,
		)
	}
	for _, a := range rows.Alerts {
		batch.Queue(`INSERT INTO alert_events (run_id, symbol, kind, observed, threshold)
			VALUES ($1, $2, $3, $4, $5)`,
			run.ID, a.Symbol, a.Kind, a.Observed, a.Threshold,
		)
	}
	for _, f := range rows.Failures {
		batch.Queue(`INSERT INTO instrument_failures (run_id, symbol, error) VALUES ($1, $2, $3)`,
			run.ID, f.Symbol, f.Error,
		)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return tx.Commit(ctx)
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	r.pool.Close()
	return nil
}
