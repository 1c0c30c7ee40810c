package model

import "time"

// Trend is the base trend derived from price versus the two moving averages.
type Trend int

const (
	TrendUndefined Trend = iota
	TrendUp
	TrendDown
	TrendSideways
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "Uptrend"
	case TrendDown:
		return "Downtrend"
	case TrendSideways:
		return "Sideways"
	default:
		return "Hold/Sideways"
	}
}

// Momentum is the RSI-based qualifier appended to the trend label.
type Momentum int

const (
	MomentumNone Momentum = iota
	MomentumOversold
	MomentumOverbought
)

func (m Momentum) String() string {
	switch m {
	case MomentumOversold:
		return "Strong Buy - Oversold"
	case MomentumOverbought:
		return "Strong Sell - Overbought"
	default:
		return ""
	}
}

// Classification is the trend/momentum verdict for one instrument.
type Classification struct {
	Trend    Trend
	Momentum Momentum
}

// Label renders the base trend followed by the momentum qualifier, if any.
func (c Classification) Label() string {
	if c.Momentum == MomentumNone {
		return c.Trend.String()
	}
	return c.Trend.String() + " (" + c.Momentum.String() + ")"
}

// Action maps the trend to a trading verb.
func (c Classification) Action() string {
	switch c.Trend {
	case TrendUp:
		return "Buy"
	case TrendDown:
		return "Sell"
	default:
		return "Hold"
	}
}

// Thresholds are the user alert bounds. No ordering between low and high
// is enforced.
type Thresholds struct {
	RSILow    float64 `yaml:"rsi_low"`
	RSIHigh   float64 `yaml:"rsi_high"`
	PriceLow  float64 `yaml:"price_low"`
	PriceHigh float64 `yaml:"price_high"`
}

// AlertKind identifies which threshold fired.
type AlertKind string

const (
	AlertRSILow    AlertKind = "RSI_LOW"
	AlertRSIHigh   AlertKind = "RSI_HIGH"
	AlertPriceLow  AlertKind = "PRICE_LOW"
	AlertPriceHigh AlertKind = "PRICE_HIGH"
)

// AlertEvent is a threshold crossing on the latest value.
type AlertEvent struct {
	Kind      AlertKind
	Symbol    string
	Observed  float64
	Threshold float64
}

// NoticeKind identifies an informational notice.
type NoticeKind string

const (
	NoticeNoRSI   NoticeKind = "NO_RSI_DATA"
	NoticeNoPrice NoticeKind = "NO_PRICE_DATA"
)

// Notice reports that a check could not run because its input was undefined.
type Notice struct {
	Kind   NoticeKind
	Symbol string
	// Reason says why the input was undefined, when known.
	Reason string
}

// InstrumentAnalysis is the structured outcome for one instrument.
type InstrumentAnalysis struct {
	Snapshot       *MarketSnapshot
	Indicators     *MarketIndicators
	Classification Classification
	Alerts         []AlertEvent
	Notices        []Notice
}

// InstrumentResult is the per-instrument task result: exactly one of
// Analysis and Err is set.
type InstrumentResult struct {
	Symbol   string
	Analysis *InstrumentAnalysis
	Err      error
}

// Run is one analysis pass over a list of symbols.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Thresholds Thresholds
	Results    []InstrumentResult
}

// Failed returns the results that ended in an error.
func (r *Run) Failed() []InstrumentResult {
	var out []InstrumentResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
