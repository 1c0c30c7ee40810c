package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"StockSentinel/internal/analysis"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/report"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		symbols   = flag.String("symbols", "", "Comma-separated ticker symbols, e.g. TSLA,AAPL,AMZN")
		rsiLow    = flag.Float64("rsi-low", 30, "RSI lower alert limit")
		rsiHigh   = flag.Float64("rsi-high", 70, "RSI upper alert limit")
		priceLow  = flag.Float64("price-low", 0, "Price lower alert limit")
		priceHigh = flag.Float64("price-high", 0, "Price upper alert limit")
		cfgPath   = flag.String("config", "", "Optional YAML config file")
		outDir    = flag.String("out", "", "Output directory for CSV files (default from config, else current dir)")
		charts    = flag.Bool("charts", false, "Also write an HTML chart per instrument")
		mock      = flag.Bool("mock", false, "Use generated data instead of a live data source")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["symbols"] {
		cfg.Symbols = config.ParseSymbols(*symbols)
	}
	if set["rsi-low"] {
		cfg.Thresholds.RSILow = *rsiLow
	}
	if set["rsi-high"] {
		cfg.Thresholds.RSIHigh = *rsiHigh
	}
	if set["price-low"] {
		cfg.Thresholds.PriceLow = *priceLow
	}
	if set["price-high"] {
		cfg.Thresholds.PriceHigh = *priceHigh
	}
	if set["out"] {
		cfg.Output.Dir = *outDir
	}
	if set["charts"] {
		cfg.Output.Charts = *charts
	}

	p := newPrompter(os.Stdin, os.Stdout)
	if len(cfg.Symbols) == 0 {
		if cfg.Symbols, err = p.symbols(); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}
	// Without a config file every threshold not given as a flag is asked for.
	if *cfgPath == "" {
		if err := p.thresholds(&cfg.Thresholds, set); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if cfg.ThresholdsInverted() {
		log.Println("[WARN] a low threshold is above its high threshold; low alerts take precedence")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var fetcher collector.Fetcher
	closeCache := func() {}
	if *mock {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
		if cfg.Redis.Addr != "" {
			rc, err := collector.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				log.Printf("[WARN] redis unavailable, fetching without cache: %v", err)
			} else {
				closeCache = func() { rc.Close() }
				fetcher = collector.NewCachingFetcher(fetcher, rc, cfg.Redis.TTL)
			}
		}
	}

	rec, err := recorder.Open(ctx, cfg.Database.SQLitePath, cfg.Database.PostgresDSN)
	if err != nil {
		log.Printf("[WARN] init recorder failed, using noop: %v", err)
		rec = recorder.NewNoopRecorder()
	}

	code := screen(ctx, cfg, fetcher, rec, os.Stdout)

	// os.Exit skips deferred calls.
	closeCache()
	cancel()
	os.Exit(code)
}

// screen analyses the configured symbols, prints one block per symbol to w,
// writes the output files and records the run. It closes rec and returns
// the process exit code: 1 when every symbol failed.
func screen(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher, rec recorder.Recorder, w io.Writer) int {
	defer func() {
		if err := rec.Close(); err != nil {
			log.Printf("[ERROR] close recorder: %v", err)
		}
	}()

	col := collector.NewCollector(fetcher, cfg.DataSource.LookbackDays)
	runner := analysis.NewRunner(col, cfg.AnalysisParams(), cfg.Workers)
	runner.SourceName = fetcher.Name()

	run := runner.Run(ctx, cfg.Symbols)

	for _, res := range run.Results {
		fmt.Fprintf(w, "\nFetching data for %s...\n\n", res.Symbol)
		if res.Err != nil {
			fmt.Fprintf(w, "Error fetching data for %s. Please check the ticker symbol and try again.\n", res.Symbol)
			fmt.Fprintln(w, "Error details:", res.Err)
			continue
		}
		fmt.Fprintln(w, notifier.PlainText(notifier.FormatAnalysis(res.Analysis)))
	}

	if _, err := report.WriteRun(cfg.Output.Dir, run.Results, cfg.Output.Charts); err != nil {
		log.Printf("[ERROR] write summary report: %v", err)
	}

	if err := rec.RecordRun(ctx, run); err != nil {
		log.Printf("[ERROR] record run %s: %v", run.ID, err)
	}

	if len(run.Failed()) == len(run.Results) {
		return 1
	}
	return 0
}
