package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// DefaultLookbackDays is the history window fetched per instrument (one year).
const DefaultLookbackDays = 365

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price      float64       // base price for generated bars; derived from the symbol when 0
	DailyData  []model.OHLCV // returned verbatim when set
	Quote      *model.Quote  // returned when set, otherwise an empty quote
	HistoryErr error
	QuoteErr   error
	End        time.Time // date of the last generated bar, today when zero
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	base := m.Price
	if base == 0 {
		base = mockBasePrice(symbol)
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return generateMockBars(base, tradingDays(days), end), nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, _ string) (*model.Quote, error) {
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	if m.Quote != nil {
		q := *m.Quote
		return &q, nil
	}
	return &model.Quote{}, nil
}

func mockBasePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 20 + float64(h.Sum32()%480)
}

// generateMockBars produces a gentle drift with a weekly oscillation so that
// every indicator has movement to work with.
func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/5))
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches history and quote data for one symbol and resolves the
// fields the analysis needs, applying the documented fallbacks.
type Collector struct {
	Fetcher      Fetcher
	LookbackDays int

	now func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookbackDays int) *Collector {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Collector{Fetcher: fetcher, LookbackDays: lookbackDays, now: time.Now}
}

// Collect fetches a snapshot for symbol. A history failure is an error for
// this symbol; a quote failure only means the quote fields are absent.
//
// Current price: quote price, else latest close, else undefined.
// 52-week range: quote values, else computed from the history.
// Name: quote name, else model.NameUnavailable.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.MarketSnapshot, error) {
	bars, err := c.Fetcher.FetchHistory(ctx, symbol, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	bars, stats := NormalizeBars(bars)
	if !stats.Clean() {
		log.Printf("[WARN] %s: %s returned bars out of order or duplicated (reordered=%d, dropped=%d)",
			symbol, c.Fetcher.Name(), stats.Reordered, stats.Dropped)
	}
	series := model.PriceSeries{Symbol: symbol, Bars: bars}

	quote, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] %s: quote unavailable: %v", symbol, err)
		quote = &model.Quote{}
	}

	snap := &model.MarketSnapshot{
		Series:    series,
		Name:      quote.Name,
		FetchedAt: c.clock(),
	}
	if snap.Name == "" {
		snap.Name = model.NameUnavailable
	}

	switch {
	case quote.Price.Defined():
		snap.CurrentPrice = quote.Price
		snap.PriceSource = model.PriceFromQuote
	case series.LastClose().Defined():
		snap.CurrentPrice = series.LastClose()
		snap.PriceSource = model.PriceFromLastClose
		log.Printf("[INFO] %s: current price not available, using latest close %.2f", symbol, snap.CurrentPrice.Or(0))
	default:
		snap.CurrentPrice = model.None()
		snap.PriceSource = model.PriceMissing
		log.Printf("[WARN] %s: no historical data available to determine the price", symbol)
	}

	high, low := calculator.Range52Week(series.Bars)
	snap.High52w = quote.High52w
	if !snap.High52w.Defined() {
		snap.High52w = high
	}
	snap.Low52w = quote.Low52w
	if !snap.Low52w.Defined() {
		snap.Low52w = low
	}

	return snap, nil
}

func (c *Collector) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
