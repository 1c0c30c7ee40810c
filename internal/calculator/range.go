package calculator

import (
	"math"

	"StockSentinel/internal/model"
)

// TradingDaysPerYear is the lookback used for 52-week extremes.
const TradingDaysPerYear = 252

// Range52Week scans the most recent 252 bars and returns the highest high
// and lowest low. Both are undefined for an empty series.
func Range52Week(bars []model.OHLCV) (high, low model.Value) {
	return trailingRange(bars, TradingDaysPerYear)
}

func trailingRange(bars []model.OHLCV, lookback int) (high, low model.Value) {
	n := len(bars)
	if n == 0 {
		return model.None(), model.None()
	}
	start := n - lookback
	if start < 0 {
		start = 0
	}
	h := math.Inf(-1)
	l := math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > h {
			h = bars[i].High
		}
		if bars[i].Low < l {
			l = bars[i].Low
		}
	}
	return model.Some(h), model.Some(l)
}

// PositionInRange returns where price sits within [low, high] as 0..1.
// Undefined when any input is undefined or the range is inverted; 0.5 for a flat range.
func PositionInRange(price, high, low model.Value) model.Value {
	p, pok := price.Get()
	h, hok := high.Get()
	l, lok := low.Get()
	if !pok || !hok || !lok || h < l {
		return model.None()
	}
	if h == l {
		return model.Some(0.5)
	}
	pos := (p - l) / (h - l)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return model.Some(pos)
}
