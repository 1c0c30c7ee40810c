// Package alert checks the latest RSI and price against user thresholds.
package alert

import "StockSentinel/internal/model"

// Result holds the threshold alerts and the informational notices for one instrument.
type Result struct {
	Alerts  []model.AlertEvent
	Notices []model.Notice
}

// Evaluate never fails: a missing input produces a notice instead of an
// alert. Within each pair the low bound is checked first, so at most one
// alert per pair fires even when low > high.
func Evaluate(symbol string, rsi, price model.Value, th model.Thresholds) Result {
	var res Result

	if r, ok := rsi.Get(); ok {
		if evt, fired := checkPair(symbol, r, th.RSILow, th.RSIHigh, model.AlertRSILow, model.AlertRSIHigh); fired {
			res.Alerts = append(res.Alerts, evt)
		}
	} else {
		res.Notices = append(res.Notices, model.Notice{Kind: model.NoticeNoRSI, Symbol: symbol})
	}

	if p, ok := price.Get(); ok {
		if evt, fired := checkPair(symbol, p, th.PriceLow, th.PriceHigh, model.AlertPriceLow, model.AlertPriceHigh); fired {
			res.Alerts = append(res.Alerts, evt)
		}
	} else {
		res.Notices = append(res.Notices, model.Notice{Kind: model.NoticeNoPrice, Symbol: symbol})
	}

	return res
}

func checkPair(symbol string, observed, low, high float64, lowKind, highKind model.AlertKind) (model.AlertEvent, bool) {
	switch {
	case observed < low:
		return model.AlertEvent{Kind: lowKind, Symbol: symbol, Observed: observed, Threshold: low}, true
	case observed > high:
		return model.AlertEvent{Kind: highKind, Symbol: symbol, Observed: observed, Threshold: high}, true
	}
	return model.AlertEvent{}, false
}
