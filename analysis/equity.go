package analysis

import "math"

// TradingDaysPerYear annualises the Sharpe ratio.
const TradingDaysPerYear = 252

// Sharpe returns mean/stddev of the simple returns of equity, scaled by
// sqrt(252). The standard deviation is the population one. Fewer than two
// returns, or a flat curve, give 0.
func Sharpe(equity []float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[i]-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(returns)))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown returns the largest peak-to-trough fall of equity as a
// fraction of the peak.
func MaxDrawdown(equity []float64) float64 {
	peak, maxDD := 0.0, 0.0
	for i, e := range equity {
		if i == 0 || e > peak {
			peak = e
		}
		if peak > 0 {
			maxDD = math.Max(maxDD, (peak-e)/peak)
		}
	}
	return maxDD
}

// TotalReturn is the percent change from initial to the last equity value.
func TotalReturn(initial float64, equity []float64) float64 {
	if initial == 0 || len(equity) == 0 {
		return 0
	}
	return (equity[len(equity)-1] - initial) / initial * 100
}
