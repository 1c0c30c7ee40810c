package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/model"
)

type closeTracker struct {
	runs   int
	closed bool
}

func (c *closeTracker) RecordRun(_ context.Context, _ *model.Run) error {
	c.runs++
	return nil
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func testConfig(t *testing.T, symbols ...string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Symbols = symbols
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestScreen_AllFailedClosesRecorder(t *testing.T) {
	rec := &closeTracker{}
	var out bytes.Buffer
	fetcher := &collector.MockFetcher{HistoryErr: errors.New("no such ticker")}

	code := screen(context.Background(), testConfig(t, "BAD"), fetcher, rec, &out)

	assert.Equal(t, 1, code)
	assert.True(t, rec.closed, "recorder must be closed before the process exits")
	assert.Equal(t, 1, rec.runs)
	assert.Contains(t, out.String(), "Error fetching data for BAD")
}

func TestScreen_Success(t *testing.T) {
	rec := &closeTracker{}
	var out bytes.Buffer

	code := screen(context.Background(), testConfig(t, "AAPL", "MSFT"), &collector.MockFetcher{Price: 100}, rec, &out)

	assert.Equal(t, 0, code)
	assert.True(t, rec.closed)
	assert.Contains(t, out.String(), "Decision for AAPL")
	assert.Contains(t, out.String(), "Action: ")
}
