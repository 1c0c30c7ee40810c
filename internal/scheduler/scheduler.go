package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"StockSentinel/internal/alertstate"
	"StockSentinel/internal/analysis"
	"StockSentinel/internal/config"
	"StockSentinel/internal/model"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/observability"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/report"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Runner    *analysis.Runner
	Alerts    *alertstate.Manager
	Notifier  Sender
	Recorder  recorder.Recorder
	Metrics   *observability.Metrics
	Watchlist []string
	OutputDir string
	Charts    bool
	Ctx       context.Context

	// runMu keeps a manual /run from overlapping the cron run.
	runMu sync.Mutex
	now   func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *analysis.Runner, am *alertstate.Manager, tn Sender, rec recorder.Recorder, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Runner:    runner,
		Alerts:    am,
		Notifier:  tn,
		Recorder:  rec,
		Watchlist: watchlist,
		OutputDir: ".",
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the daily watchlist run and the alert-state prune.
func (s *Scheduler) RegisterAll(dailyCron, resetCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(resetCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the watchlist run immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Printf("[INFO] running watchlist: %s", strings.Join(s.Watchlist, ","))
	if _, err := s.runWatchlist(s.Ctx); err != nil {
		log.Printf("[ERROR] watchlist run: %v", err)
		_ = s.trySend(fmt.Sprintf("❌ Watchlist run failed: %v", err))
	}
}

// runWatchlist analyses the watchlist, writes the output files, records the
// run and sends the summary plus any alerts outside their cooldown.
func (s *Scheduler) runWatchlist(ctx context.Context) (*model.Run, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if len(s.Watchlist) == 0 {
		return nil, fmt.Errorf("watchlist is empty")
	}

	run := s.Runner.Run(ctx, s.Watchlist)

	summary, err := report.WriteRun(s.OutputDir, run.Results, s.Charts)
	if err != nil {
		log.Printf("[ERROR] write report: %v", err)
	}

	if err := s.Recorder.RecordRun(ctx, run); err != nil {
		log.Printf("[ERROR] record run %s: %v", run.ID, err)
	}

	_ = s.trySend(notifier.FormatSummary(summary, run.FinishedAt))

	var alerts []model.AlertEvent
	for _, res := range run.Results {
		if res.Analysis != nil {
			alerts = append(alerts, res.Analysis.Alerts...)
		}
	}
	now := s.clock()
	if s.Alerts != nil {
		alerts = s.Alerts.Pending(alerts, now)
	}
	if msg := notifier.FormatAlerts(alerts, nil); msg != "" {
		// Alerts start their cooldown only once delivered, so a failed
		// send is retried on the next run.
		if err := s.trySend(msg); err == nil && s.Alerts != nil {
			s.Alerts.MarkSent(alerts, now)
		}
	}
	return run, nil
}

func (s *Scheduler) pruneTask() {
	if s.Alerts == nil {
		return
	}
	n := s.Alerts.Prune(s.clock())
	log.Printf("[INFO] alert state pruned: %d expired entries", n)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch strings.ToLower(fields[0]) {
	case "/check":
		symbols := config.ParseSymbols(strings.Join(fields[1:], ","))
		if len(symbols) == 0 {
			return "Usage: /check AAPL,MSFT"
		}
		return s.check(ctx, symbols)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty."
		}
		return "👀 <b>Watchlist:</b> " + strings.Join(s.Watchlist, ", ")
	case "/run":
		go s.dailyTask()
		return "⏳ Watchlist run started."
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /check AAPL,MSFT\n• /watchlist\n• /run"

// check analyses symbols on demand. Alerts are reported unfiltered.
func (s *Scheduler) check(ctx context.Context, symbols []string) string {
	run := s.Runner.Run(ctx, symbols)
	if err := s.Recorder.RecordRun(ctx, run); err != nil {
		log.Printf("[ERROR] record run %s: %v", run.ID, err)
	}

	var parts []string
	for _, res := range run.Results {
		if res.Err != nil {
			parts = append(parts, fmt.Sprintf("❌ Error fetching data for %s: %s", html.EscapeString(res.Symbol), html.EscapeString(res.Err.Error())))
			continue
		}
		parts = append(parts, notifier.FormatAnalysis(res.Analysis))
	}
	return strings.Join(parts, "\n\n")
}

func (s *Scheduler) trySend(text string) error {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
		return err
	}
	s.Metrics.ObserveNotification()
	return nil
}

func (s *Scheduler) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
