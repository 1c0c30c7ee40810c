package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"StockSentinel/internal/model"
)

// SummaryFileName is the aggregate report written once per run.
const SummaryFileName = "stock_summary_report.csv"

// HistoryHeader is the column order of the per-instrument history file.
var HistoryHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume", "50_MA", "200_MA", "RSI"}

// HistoryFileName returns the history file name for symbol. Path
// separators in the symbol (e.g. "BRK/B") are replaced.
func HistoryFileName(symbol string) string {
	return safeName(symbol) + "_historical_data.csv"
}

func safeName(symbol string) string {
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_").Replace(symbol)
}

// WriteSummaryCSV writes the header and one line per row.
func WriteSummaryCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, r := range s.Rows {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoryCSV writes every bar with its indicator values. Undefined
// indicator positions are left empty.
func WriteHistoryCSV(w io.Writer, series *model.PriceSeries, ind *model.MarketIndicators) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryHeader); err != nil {
		return err
	}
	for i, b := range series.Bars {
		rec := []string{
			b.Date(),
			raw(b.Open),
			raw(b.High),
			raw(b.Low),
			raw(b.Close),
			raw(b.Volume),
			cell(ind.SMAShort, i),
			cell(ind.SMALong, i),
			cell(ind.RSI, i),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cell(s model.IndicatorSeries, i int) string {
	if i >= len(s) {
		return ""
	}
	v, ok := s[i].Get()
	if !ok {
		return ""
	}
	return raw(v)
}

// WriteHistoryFile writes the history CSV of one analysis into dir and
// returns its path.
func WriteHistoryFile(dir string, a *model.InstrumentAnalysis) (string, error) {
	path := filepath.Join(dir, HistoryFileName(a.Snapshot.Series.Symbol))
	err := writeFile(path, func(w io.Writer) error {
		return WriteHistoryCSV(w, &a.Snapshot.Series, a.Indicators)
	})
	return path, err
}

// WriteSummaryFile writes the summary CSV into dir and returns its path.
func WriteSummaryFile(dir string, s Summary) (string, error) {
	path := filepath.Join(dir, SummaryFileName)
	err := writeFile(path, func(w io.Writer) error {
		return WriteSummaryCSV(w, s)
	})
	return path, err
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteRun writes the history CSV of every successful instrument, an HTML
// chart per instrument when charts is set, and the summary CSV. A failed
// write is logged and does not stop the others.
func WriteRun(dir string, results []model.InstrumentResult, charts bool) (Summary, error) {
	for _, res := range results {
		if res.Analysis == nil {
			continue
		}
		path, err := WriteHistoryFile(dir, res.Analysis)
		if err != nil {
			log.Printf("[ERROR] %s history: %v", res.Symbol, err)
			continue
		}
		log.Printf("[INFO] historical data saved to %s", path)

		if charts {
			if path, err := WriteChartFile(dir, res.Analysis); err != nil {
				log.Printf("[ERROR] %s chart: %v", res.Symbol, err)
			} else {
				log.Printf("[INFO] chart saved to %s", path)
			}
		}
	}

	s := Assemble(results)
	path, err := WriteSummaryFile(dir, s)
	if err != nil {
		return s, err
	}
	log.Printf("[INFO] summary report saved to %s", path)
	return s, nil
}
