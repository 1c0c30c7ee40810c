package report

import (
	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// Markers for undefined values.
const (
	InsufficientData = "Insufficient Data"
	NotAvailable     = "N/A"
)

// Fixed formats v with two decimals, rounding half away from zero.
func Fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPrice renders a price as "$123.45", or N/A when undefined.
func FormatPrice(v model.Value) string {
	x, ok := v.Get()
	if !ok {
		return NotAvailable
	}
	return "$" + Fixed(x)
}

// FormatMoney renders a money-valued indicator, or "Insufficient Data".
func FormatMoney(v model.Value) string {
	x, ok := v.Get()
	if !ok {
		return InsufficientData
	}
	return "$" + Fixed(x)
}

// FormatRSI renders RSI with two decimals, or "Insufficient Data".
func FormatRSI(v model.Value) string {
	x, ok := v.Get()
	if !ok {
		return InsufficientData
	}
	return Fixed(x)
}

// FormatPercent renders a 0..1 fraction as a whole percentage, or N/A.
func FormatPercent(v model.Value) string {
	x, ok := v.Get()
	if !ok {
		return NotAvailable
	}
	return decimal.NewFromFloat(x*100).StringFixed(0) + "%"
}
