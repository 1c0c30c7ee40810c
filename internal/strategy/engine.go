package strategy

import "StockSentinel/internal/model"

// Inputs are the latest values the classifier reads. Any of them may be undefined.
type Inputs struct {
	Price  model.Value
	SMA50  model.Value
	SMA200 model.Value
	RSI    model.Value
}

// InputsFrom collects classifier inputs from a snapshot and its indicators.
func InputsFrom(snap *model.MarketSnapshot, ind *model.MarketIndicators) Inputs {
	return Inputs{
		Price:  snap.CurrentPrice,
		SMA50:  ind.LatestSMAShort,
		SMA200: ind.LatestSMALong,
		RSI:    ind.LatestRSI,
	}
}

// Classify derives the trend and momentum verdict. It is a pure function:
// equal inputs always produce an equal Classification.
func Classify(in Inputs) model.Classification {
	return model.Classification{
		Trend:    classifyTrend(in.Price, in.SMA50, in.SMA200),
		Momentum: classifyMomentum(in.RSI),
	}
}
