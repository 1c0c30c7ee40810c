package calculator

import (
	"errors"
	"fmt"

	"StockSentinel/internal/model"
)

// ErrInvalidWindow is returned for a non-positive window length.
var ErrInvalidWindow = errors.New("window must be positive")

// SMA computes the simple moving average series of closes over window.
// Position i is defined only when i >= window-1; earlier positions are
// undefined. No forward fill.
func SMA(closes []float64, window int) (model.IndicatorSeries, error) {
	if window <= 0 {
		return nil, fmt.Errorf("sma(%d): %w", window, ErrInvalidWindow)
	}
	values := make([]model.Value, len(closes))
	for i, c := range closes {
		values[i] = model.Some(c)
	}
	return rollingMean(values, window), nil
}

// rollingMean averages each trailing window. A window that is not yet full,
// or that contains an undefined input, yields an undefined output.
func rollingMean(values []model.Value, window int) model.IndicatorSeries {
	out := make(model.IndicatorSeries, len(values))
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		complete := true
		for j := i - window + 1; j <= i; j++ {
			v, ok := values[j].Get()
			if !ok {
				complete = false
				break
			}
			sum += v
		}
		if complete {
			out[i] = model.Some(sum / float64(window))
		}
	}
	return out
}
