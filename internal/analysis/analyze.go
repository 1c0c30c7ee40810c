// Package analysis runs the indicator, classification and alert steps for
// each instrument and keeps instruments isolated from each other.
package analysis

import (
	"fmt"

	"StockSentinel/internal/alert"
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
	"StockSentinel/internal/strategy"
)

// Params are the indicator windows and alert thresholds of one pass.
type Params struct {
	SMAShort   int
	SMALong    int
	RSIWindow  int
	Thresholds model.Thresholds
}

// DefaultParams returns SMA(50), SMA(200), RSI(14) with the conventional
// 30/70 RSI thresholds and no price bounds.
func DefaultParams() Params {
	return Params{
		SMAShort:  50,
		SMALong:   200,
		RSIWindow: calculator.DefaultRSIWindow,
		Thresholds: model.Thresholds{
			RSILow:    30,
			RSIHigh:   70,
			PriceLow:  0,
			PriceHigh: 1e12,
		},
	}
}

// ComputeIndicators derives the SMA and RSI series of a validated series.
func ComputeIndicators(series *model.PriceSeries, p Params) (*model.MarketIndicators, error) {
	closes := series.Closes()

	short, err := calculator.SMA(closes, p.SMAShort)
	if err != nil {
		return nil, err
	}
	long, err := calculator.SMA(closes, p.SMALong)
	if err != nil {
		return nil, err
	}
	rsi, err := calculator.RSI(closes, p.RSIWindow)
	if err != nil {
		return nil, err
	}

	ind := &model.MarketIndicators{SMAShort: short, SMALong: long, RSI: rsi}
	ind.LatestSMAShort, ind.SMAShortStatus = short.Latest()
	ind.LatestSMALong, ind.SMALongStatus = long.Latest()
	ind.LatestRSI, ind.RSIStatus = rsi.Latest()
	return ind, nil
}

// Analyze runs the core pipeline on one snapshot. Insufficient data is not
// an error; only a broken series contract or invalid windows are.
func Analyze(snap *model.MarketSnapshot, p Params) (*model.InstrumentAnalysis, error) {
	if err := snap.Series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series: %w", err)
	}

	ind, err := ComputeIndicators(&snap.Series, p)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}

	cls := strategy.Classify(strategy.InputsFrom(snap, ind))
	alerts := alert.Evaluate(snap.Series.Symbol, ind.LatestRSI, snap.CurrentPrice, p.Thresholds)
	for i := range alerts.Notices {
		if alerts.Notices[i].Kind == model.NoticeNoRSI {
			alerts.Notices[i].Reason = ind.RSIStatus.String()
		}
	}

	return &model.InstrumentAnalysis{
		Snapshot:       snap,
		Indicators:     ind,
		Classification: cls,
		Alerts:         alerts.Alerts,
		Notices:        alerts.Notices,
	}, nil
}
