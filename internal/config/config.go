package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockSentinel/internal/analysis"
	"StockSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"data_source"`
	Symbols    []string         `yaml:"symbols"`
	Thresholds model.Thresholds `yaml:"thresholds"`
	Indicators struct {
		SMAShort  int `yaml:"sma_short"`
		SMALong   int `yaml:"sma_long"`
		RSIWindow int `yaml:"rsi_window"`
	} `yaml:"indicators"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
		ResetCron string `yaml:"reset_cron"`
	} `yaml:"schedule"`
	Alerts struct {
		Cooldown  time.Duration `yaml:"cooldown"`
		StateFile string        `yaml:"state_file"`
	} `yaml:"alerts"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Output struct {
		Dir    string `yaml:"dir"`
		Charts bool   `yaml:"charts"`
	} `yaml:"output"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Workers int    `yaml:"workers"`
	Proxy   string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Thresholds: model.Thresholds{RSILow: 30, RSIHigh: 70, PriceLow: 0, PriceHigh: 1e12},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	cfg.Symbols = ParseSymbols(strings.Join(cfg.Symbols, ","))

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &cfg.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &cfg.Telegram.ChatID,
		"DATA_BASE_URL":      &cfg.DataSource.BaseURL,
		"DATA_API_KEY":       &cfg.DataSource.APIKey,
		"HTTPS_PROXY":        &cfg.Proxy,
		"CRON_DAILY":         &cfg.Schedule.DailyCron,
		"SQLITE_PATH":        &cfg.Database.SQLitePath,
		"POSTGRES_DSN":       &cfg.Database.PostgresDSN,
		"REDIS_ADDR":         &cfg.Redis.Addr,
		"OUTPUT_DIR":         &cfg.Output.Dir,
		"METRICS_ADDR":       &cfg.Metrics.Addr,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = ParseSymbols(v)
	}

	floats := map[string]*float64{
		"RSI_LOW":    &cfg.Thresholds.RSILow,
		"RSI_HIGH":   &cfg.Thresholds.RSIHigh,
		"PRICE_LOW":  &cfg.Thresholds.PriceLow,
		"PRICE_HIGH": &cfg.Thresholds.PriceHigh,
	}
	for key, dst := range floats {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		f, err := ParseThreshold(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = f
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 365
	}
	if cfg.Indicators.SMAShort == 0 {
		cfg.Indicators.SMAShort = 50
	}
	if cfg.Indicators.SMALong == 0 {
		cfg.Indicators.SMALong = 200
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.ResetCron == "" {
		cfg.Schedule.ResetCron = "0 0 9 * * 1"
	}
	if cfg.Alerts.Cooldown == 0 {
		cfg.Alerts.Cooldown = 24 * time.Hour
	}
	if cfg.Alerts.StateFile == "" {
		cfg.Alerts.StateFile = "data/alert_state.json"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 6 * time.Hour
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
}

// Validate checks the settings every binary depends on.
func (c *Config) Validate() error {
	if c.Indicators.SMAShort <= 0 || c.Indicators.SMALong <= 0 || c.Indicators.RSIWindow <= 0 {
		return fmt.Errorf("indicator windows must be positive (sma_short=%d sma_long=%d rsi_window=%d)",
			c.Indicators.SMAShort, c.Indicators.SMALong, c.Indicators.RSIWindow)
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	th := c.Thresholds
	for name, v := range map[string]float64{
		"rsi_low": th.RSILow, "rsi_high": th.RSIHigh, "price_low": th.PriceLow, "price_high": th.PriceHigh,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("thresholds.%s must be a finite number", name)
		}
	}
	return nil
}

// ValidateBot additionally checks the settings the Telegram daemon needs.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols: watchlist is empty")
	}
	return nil
}

// AnalysisParams returns the indicator windows and thresholds of one pass.
func (c *Config) AnalysisParams() analysis.Params {
	return analysis.Params{
		SMAShort:   c.Indicators.SMAShort,
		SMALong:    c.Indicators.SMALong,
		RSIWindow:  c.Indicators.RSIWindow,
		Thresholds: c.Thresholds,
	}
}

// ThresholdsInverted reports whether a low bound exceeds its high bound.
// Such thresholds are accepted; the low check simply wins.
func (c *Config) ThresholdsInverted() bool {
	return c.Thresholds.RSILow > c.Thresholds.RSIHigh || c.Thresholds.PriceLow > c.Thresholds.PriceHigh
}

// ParseSymbols splits comma-separated free text into trimmed, upper-cased,
// de-duplicated symbols, keeping first-seen order.
func ParseSymbols(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(text, ",") {
		s := strings.ToUpper(strings.TrimSpace(part))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ErrNotFinite is returned by ParseThreshold for NaN or infinite input.
var ErrNotFinite = errors.New("threshold is not a finite number")

// ParseThreshold parses a user-entered threshold.
func ParseThreshold(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("parse threshold %q: %w", text, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse threshold %q: %w", text, ErrNotFinite)
	}
	return f, nil
}
