package model

import "math"

// Value is a float that may be undefined, e.g. an indicator inside its
// warm-up period. The zero Value is undefined.
type Value struct {
	v  float64
	ok bool
}

// Some returns a defined Value. NaN is treated as undefined.
func Some(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// None returns the undefined Value.
func None() Value { return Value{} }

// Get returns the float and whether it is defined.
func (x Value) Get() (float64, bool) { return x.v, x.ok }

// Defined reports whether x holds a number.
func (x Value) Defined() bool { return x.ok }

// Or returns the float, or def when x is undefined.
func (x Value) Or(def float64) float64 {
	if !x.ok {
		return def
	}
	return x.v
}

// LatestStatus describes the outcome of reading the last position of a series.
type LatestStatus int

const (
	// LatestDefined means the last position holds a number.
	LatestDefined LatestStatus = iota
	// LatestUndefined means the series has data but no usable value at its last position.
	LatestUndefined
	// LatestEmpty means the series has no positions at all.
	LatestEmpty
)

func (s LatestStatus) String() string {
	switch s {
	case LatestDefined:
		return "defined"
	case LatestUndefined:
		return "no usable value"
	default:
		return "empty"
	}
}

// IndicatorSeries is aligned 1:1 with the bars it was derived from.
type IndicatorSeries []Value

// Latest returns the value at the last position, defined or not.
// An earlier defined value is never substituted.
func (s IndicatorSeries) Latest() (Value, LatestStatus) {
	if len(s) == 0 {
		return None(), LatestEmpty
	}
	last := s[len(s)-1]
	if !last.Defined() {
		return None(), LatestUndefined
	}
	return last, LatestDefined
}

// DefinedCount returns how many positions hold a number.
func (s IndicatorSeries) DefinedCount() int {
	n := 0
	for _, v := range s {
		if v.Defined() {
			n++
		}
	}
	return n
}

// MarketIndicators holds the full derived series for one instrument plus
// the latest values the classifier and alert evaluator consume.
type MarketIndicators struct {
	SMAShort IndicatorSeries
	SMALong  IndicatorSeries
	RSI      IndicatorSeries

	LatestSMAShort Value
	LatestSMALong  Value
	LatestRSI      Value

	// Why each latest value is or is not defined.
	SMAShortStatus LatestStatus
	SMALongStatus  LatestStatus
	RSIStatus      LatestStatus
}
