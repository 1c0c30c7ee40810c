package collector

import (
	"sort"

	"StockSentinel/internal/model"
)

// NormalizeStats counts the repairs NormalizeBars made.
type NormalizeStats struct {
	Reordered int // bars that arrived earlier than their predecessor
	Dropped   int // bars replaced by a later bar of the same date
}

// Clean reports whether the input already was chronological and unique per date.
func (s NormalizeStats) Clean() bool { return s.Reordered == 0 && s.Dropped == 0 }

// NormalizeBars sorts bars chronologically and keeps one bar per calendar
// date. When a provider repeats a date (typically the live bar of the
// current session) the later bar wins. The input is not modified.
func NormalizeBars(bars []model.OHLCV) ([]model.OHLCV, NormalizeStats) {
	var stats NormalizeStats
	if len(bars) == 0 {
		return bars, stats
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Time.Before(bars[i-1].Time) {
			stats.Reordered++
		}
	}

	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Date() == b.Date() {
			out[n-1] = b
			stats.Dropped++
			continue
		}
		out = append(out, b)
	}
	return out, stats
}
