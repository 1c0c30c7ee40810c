package calculator

import (
	"fmt"

	"StockSentinel/internal/model"
)

// DefaultRSIWindow is the conventional RSI lookback.
const DefaultRSIWindow = 14

// RSI computes the Relative Strength Index series using simple rolling means
// of gains and losses. The first window positions are undefined: one is lost
// to differencing, window-1 to the rolling mean.
//
// Degenerate ratios are resolved in-band: zero mean loss with positive mean
// gain is 100, zero mean gain with positive mean loss is 0, and no movement
// at all (0/0) is undefined.
func RSI(closes []float64, window int) (model.IndicatorSeries, error) {
	if window <= 0 {
		return nil, fmt.Errorf("rsi(%d): %w", window, ErrInvalidWindow)
	}

	gains := make([]model.Value, len(closes))
	losses := make([]model.Value, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		gains[i] = model.Some(gain)
		losses[i] = model.Some(loss)
	}

	avgGain := rollingMean(gains, window)
	avgLoss := rollingMean(losses, window)

	out := make(model.IndicatorSeries, len(closes))
	for i := range closes {
		g, gok := avgGain[i].Get()
		l, lok := avgLoss[i].Get()
		if !gok || !lok {
			continue
		}
		out[i] = rsiFromMeans(g, l)
	}
	return out, nil
}

func rsiFromMeans(avgGain, avgLoss float64) model.Value {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return model.None()
	case avgLoss == 0:
		return model.Some(100)
	}
	rs := avgGain / avgLoss
	return model.Some(100.0 - 100.0/(1.0+rs))
}
