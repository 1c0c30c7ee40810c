package collector

import (
	"context"

	"StockSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchHistory returns the daily bars of the trailing days calendar
	// days, oldest first. Bars are passed on in provider order; Collect
	// repairs ordering and duplicate dates and logs when it had to.
	FetchHistory(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	// FetchQuote returns live-quote fields; any of them may be absent.
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}

// NewFetcher returns the REST provider when baseURL is set and Yahoo otherwise.
func NewFetcher(baseURL, apiKey, proxyURL string) Fetcher {
	if baseURL != "" {
		return NewRESTFetcher(baseURL, apiKey, proxyURL)
	}
	return NewYahooFetcher(proxyURL)
}

// tradingDays converts a calendar-day lookback into a session count
// (252 sessions per 365 days), never less than one.
func tradingDays(days int) int {
	n := days * 252 / 365
	if n < 1 {
		return 1
	}
	return n
}
