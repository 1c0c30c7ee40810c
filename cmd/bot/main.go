package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"StockSentinel/internal/alertstate"
	"StockSentinel/internal/analysis"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/observability"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockSentinel bot starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if cfg.ThresholdsInverted() {
		log.Println("[WARN] a low threshold is above its high threshold; low alerts take precedence")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	fetcher := collector.NewFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	if cfg.Redis.Addr != "" {
		rc, err := collector.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("[WARN] redis unavailable, fetching without cache: %v", err)
		} else {
			defer rc.Close()
			fetcher = collector.NewCachingFetcher(fetcher, rc, cfg.Redis.TTL)
		}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init metrics
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg, "")
	if cfg.Metrics.Addr != "" {
		srv := observability.NewServer(cfg.Metrics.Addr, reg)
		srv.Start()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Stop(shutdownCtx)
		}()
	}

	// Init runner
	col := collector.NewCollector(fetcher, cfg.DataSource.LookbackDays)
	runner := analysis.NewRunner(col, cfg.AnalysisParams(), cfg.Workers)
	runner.Metrics = metrics
	runner.SourceName = fetcher.Name()

	// Init alert state
	am, err := alertstate.NewManager(cfg.Alerts.StateFile, cfg.Alerts.Cooldown)
	if err != nil {
		log.Fatalf("[FATAL] init alert state: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	rec, err := recorder.Open(ctx, cfg.Database.SQLitePath, cfg.Database.PostgresDSN)
	if err != nil {
		log.Printf("[WARN] init recorder failed, using noop: %v", err)
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, runner, am, tn, rec, cfg.Symbols)
	sched.Metrics = metrics
	sched.OutputDir = cfg.Output.Dir
	sched.Charts = cfg.Output.Charts
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.ResetCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, running watchlist now")
		go sched.RunNow()
	}

	log.Printf("[INFO] StockSentinel is watching %d symbols. Press Ctrl+C to stop.", len(cfg.Symbols))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockSentinel stopped")
}
