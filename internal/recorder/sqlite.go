package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"StockSentinel/internal/model"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so readers are not blocked while a run is written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id       TEXT PRIMARY KEY,
			started_at   INTEGER NOT NULL,
			finished_at  INTEGER NOT NULL,
			rsi_low      REAL,
			rsi_high     REAL,
			price_low    REAL,
			price_high   REAL,
			instruments  INTEGER,
			failures     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON analysis_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS instrument_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			symbol        TEXT NOT NULL,
			name          TEXT,
			current_price REAL,
			price_source  TEXT,
			ma50          REAL,
			ma200         REAL,
			rsi           REAL,
			high_52w      REAL,
			low_52w       REAL,
			position_52w  REAL,
			decision      TEXT,
			bars          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol ON instrument_snapshots(symbol, run_id)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			kind      TEXT NOT NULL,
			observed  REAL,
			threshold REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_symbol ON alert_events(symbol)`,

		`CREATE TABLE IF NOT EXISTS instrument_failures (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL,
			symbol  TEXT NOT NULL,
			error   TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run and all of its rows in one transaction.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *model.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := Flatten(run)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	th := run.Thresholds
	if _, err := tx.ExecContext(ctx, `INSERT INTO analysis_runs
		(run_id, started_at, finished_at, rsi_low, rsi_high, price_low, price_high, instruments, failures)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(),
		th.RSILow, th.RSIHigh, th.PriceLow, th.PriceHigh,
		len(run.Results), len(rows.Failures),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, s := range rows.Snapshots {
		if _, err := tx.ExecContext(ctx, `INSERT INTO instrument_snapshots
			(run_id, symbol, name, current_price, price_source, ma50, ma200, rsi,
			 high_52w, low_52w, position_52w, decision, bars)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			run.ID, s.Symbol, s.Name, s.Price, s.PriceSource, s.MA50, s.MA200, s.RSI,
			s.High52w, s.Low52w, s.Position52w, s.Decision, s.Bars,
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", s.Symbol, err)
		}
	}

	for _, a := range rows.Alerts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO alert_events
			(run_id, symbol, kind, observed, threshold) VALUES (?,?,?,?,?)`,
			run.ID, a.Symbol, a.Kind, a.Observed, a.Threshold,
		); err != nil {
			return fmt.Errorf("insert alert %s: %w", a.Symbol, err)
		}
	}

	for _, f := range rows.Failures {
		if _, err := tx.ExecContext(ctx, `INSERT INTO instrument_failures
			(run_id, symbol, error) VALUES (?,?,?)`,
			run.ID, f.Symbol, f.Error,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Symbol, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
