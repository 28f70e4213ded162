// Package indicators provides technical analysis indicators over close
// series and, for range-based ones like ADX, over bars.
//
// Every function is pure: the same input always yields the same output, and
// insufficient history yields an empty (nil) result rather than an error.
package indicators

import "github.com/rustyeddy/fxjournal/market"

// Closes extracts the close price of each bar.
func Closes(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func last(xs []float64, back int) float64 {
	return xs[len(xs)-1-back]
}

// Last returns the newest value and the one before it; ok is false when the
// series has fewer than two values.
func Last(xs []float64) (cur, prev float64, ok bool) {
	if len(xs) < 2 {
		return 0, 0, false
	}
	return last(xs, 0), last(xs, 1), true
}
