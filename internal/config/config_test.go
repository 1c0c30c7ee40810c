package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Indicators.SMAShort)
	assert.Equal(t, 200, cfg.Indicators.SMALong)
	assert.Equal(t, 14, cfg.Indicators.RSIWindow)
	assert.Equal(t, 365, cfg.DataSource.LookbackDays)
	assert.Equal(t, 30.0, cfg.Thresholds.RSILow)
	assert.Equal(t, 70.0, cfg.Thresholds.RSIHigh)
	assert.Equal(t, 24*time.Hour, cfg.Alerts.Cooldown)
	assert.Equal(t, 4, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
symbols: [aapl, " msft", AAPL]
thresholds:
  rsi_low: 25
  rsi_high: 75
  price_low: 100
  price_high: 200
indicators:
  sma_short: 20
alerts:
  cooldown: 2h
telegram:
  bot_token: file-token
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("PRICE_HIGH", "250.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Symbols)
	assert.Equal(t, 25.0, cfg.Thresholds.RSILow)
	assert.Equal(t, 250.5, cfg.Thresholds.PriceHigh)
	assert.Equal(t, 20, cfg.Indicators.SMAShort)
	assert.Equal(t, 200, cfg.Indicators.SMALong)
	assert.Equal(t, 2*time.Hour, cfg.Alerts.Cooldown)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoad_SymbolsEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "symbols: [AAPL]\n")
	t.Setenv("SYMBOLS", "tsla, nvda")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "NVDA"}, cfg.Symbols)
}

func TestLoad_BadEnvThreshold(t *testing.T) {
	t.Setenv("RSI_LOW", "thirty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "symbols: [unterminated\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Indicators.RSIWindow = 0
	assert.Error(t, cfg.Validate())
	cfg.Indicators.RSIWindow = 14

	cfg.Workers = 0
	assert.Error(t, cfg.Validate())
	cfg.Workers = 1

	// Inverted bounds are accepted.
	cfg.Thresholds.RSILow, cfg.Thresholds.RSIHigh = 80, 20
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.ThresholdsInverted())

	assert.Error(t, cfg.ValidateBot())
}

func TestParseSymbols(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"AAPL, MSFT, TSLA", []string{"AAPL", "MSFT", "TSLA"}},
		{" aapl ,,msft, AAPL ", []string{"AAPL", "MSFT"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSymbols(tt.in), "input %q", tt.in)
	}
}

func TestParseThreshold(t *testing.T) {
	v, err := ParseThreshold(" 30.5 ")
	require.NoError(t, err)
	assert.Equal(t, 30.5, v)

	_, err = ParseThreshold("abc")
	assert.Error(t, err)

	_, err = ParseThreshold("NaN")
	assert.True(t, errors.Is(err, ErrNotFinite))
}

func TestAnalysisParams(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	p := cfg.AnalysisParams()
	assert.Equal(t, 50, p.SMAShort)
	assert.Equal(t, 200, p.SMALong)
	assert.Equal(t, 14, p.RSIWindow)
	assert.Equal(t, cfg.Thresholds, p.Thresholds)
}
