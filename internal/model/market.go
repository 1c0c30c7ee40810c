package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNonMonotonic is returned when bars are not strictly increasing by calendar date.
	ErrNonMonotonic = errors.New("bars are not strictly increasing by date")
	// ErrNonFiniteClose is returned when a bar carries a NaN or infinite close.
	ErrNonFiniteClose = errors.New("bar close is not a finite number")
)

// NameUnavailable is the display name used when the data source supplies none.
const NameUnavailable = "N/A"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Date returns the calendar date of the bar as YYYY-MM-DD.
func (b OHLCV) Date() string {
	return b.Time.Format("2006-01-02")
}

// PriceSeries is the daily history of one instrument, oldest bar first.
// It is never mutated once built; indicators are derived as new series.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or None for an empty series.
func (s *PriceSeries) LastClose() Value {
	if len(s.Bars) == 0 {
		return None()
	}
	return Some(s.Bars[len(s.Bars)-1].Close)
}

// Validate checks the series contract: strictly increasing calendar dates
// and finite closes. A short or empty series is valid.
func (s *PriceSeries) Validate() error {
	for i, b := range s.Bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			return fmt.Errorf("%s bar %s: %w", s.Symbol, b.Date(), ErrNonFiniteClose)
		}
		if i == 0 {
			continue
		}
		prev := s.Bars[i-1]
		if b.Date() <= prev.Date() {
			return fmt.Errorf("%s bar %d (%s) after %s: %w", s.Symbol, i, b.Date(), prev.Date(), ErrNonMonotonic)
		}
	}
	return nil
}

// Quote holds live-quote fields. Every field may be absent.
type Quote struct {
	Price   Value
	High52w Value
	Low52w  Value
	Name    string
}

// MarketSnapshot is everything fetched for one instrument in one pass.
type MarketSnapshot struct {
	Series       PriceSeries
	Name         string
	CurrentPrice Value
	PriceSource  PriceSource
	High52w      Value
	Low52w       Value
	FetchedAt    time.Time
}

// PriceSource records where the current price came from.
type PriceSource string

const (
	PriceFromQuote     PriceSource = "QUOTE"
	PriceFromLastClose PriceSource = "LAST_CLOSE"
	PriceMissing       PriceSource = "MISSING"
)
