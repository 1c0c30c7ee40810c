package strategy

import "StockSentinel/internal/model"

// RSI levels for the momentum qualifier. These are fixed and independent of
// the user's alert thresholds.
const (
	OversoldRSI   = 30.0
	OverboughtRSI = 70.0
)

// classifyTrend compares price with both moving averages.
// Price above both is an uptrend, below both a downtrend, anything in
// between sideways. Any missing input leaves the trend undefined.
func classifyTrend(price, sma50, sma200 model.Value) model.Trend {
	p, pok := price.Get()
	short, sok := sma50.Get()
	long, lok := sma200.Get()
	if !pok || !sok || !lok {
		return model.TrendUndefined
	}

	switch {
	case p > short && p > long:
		return model.TrendUp
	case p < short && p < long:
		return model.TrendDown
	default:
		return model.TrendSideways
	}
}

// classifyMomentum qualifies the trend from RSI; undefined RSI adds nothing.
func classifyMomentum(rsi model.Value) model.Momentum {
	r, ok := rsi.Get()
	if !ok {
		return model.MomentumNone
	}
	switch {
	case r < OversoldRSI:
		return model.MomentumOversold
	case r > OverboughtRSI:
		return model.MomentumOverbought
	default:
		return model.MomentumNone
	}
}
