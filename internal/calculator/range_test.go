package calculator

import (
	"testing"
	"time"

	"StockSentinel/internal/model"
)

func bars(highs, lows []float64) []model.OHLCV {
	out := make([]model.OHLCV, len(highs))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range highs {
		out[i] = model.OHLCV{Time: start.AddDate(0, 0, i), High: highs[i], Low: lows[i], Close: (highs[i] + lows[i]) / 2}
	}
	return out
}

func TestRange52Week(t *testing.T) {
	h, l := Range52Week(bars([]float64{10, 15, 12}, []float64{8, 9, 7}))
	if h.Or(0) != 15 || l.Or(0) != 7 {
		t.Errorf("expected 15/7, got %v/%v", h.Or(0), l.Or(0))
	}
}

func TestRange52Week_OnlyTrailingYear(t *testing.T) {
	highs := make([]float64, 300)
	lows := make([]float64, 300)
	for i := range highs {
		highs[i] = 100
		lows[i] = 90
	}
	highs[10] = 500 // outside the trailing 252 bars
	lows[10] = 1
	h, l := Range52Week(bars(highs, lows))
	if h.Or(0) != 100 || l.Or(0) != 90 {
		t.Errorf("expected 100/90, got %v/%v", h.Or(0), l.Or(0))
	}
}

func TestRange52Week_Empty(t *testing.T) {
	h, l := Range52Week(nil)
	if h.Defined() || l.Defined() {
		t.Error("expected undefined range for empty series")
	}
}

func TestPositionInRange(t *testing.T) {
	tests := []struct {
		name             string
		price, high, low model.Value
		want             model.Value
	}{
		{"middle", model.Some(15), model.Some(20), model.Some(10), model.Some(0.5)},
		{"above", model.Some(25), model.Some(20), model.Some(10), model.Some(1)},
		{"below", model.Some(5), model.Some(20), model.Some(10), model.Some(0)},
		{"flat", model.Some(10), model.Some(10), model.Some(10), model.Some(0.5)},
		{"inverted", model.Some(10), model.Some(5), model.Some(10), model.None()},
		{"no price", model.None(), model.Some(20), model.Some(10), model.None()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionInRange(tt.price, tt.high, tt.low)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
