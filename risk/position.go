package risk

import (
	"math"

	"github.com/rustyeddy/fxjournal/market"
)

// Size returns the units for which a stop stopPips away loses riskPct
// percent of capital. Fractional units are kept. Any non-positive input
// yields 0.
func Size(capital, riskPct, stopPips, pip float64) float64 {
	if capital <= 0 || riskPct <= 0 || stopPips <= 0 || pip <= 0 {
		return 0
	}
	riskAmt := capital * riskPct / 100
	units := riskAmt / (stopPips * pip)
	if math.IsInf(units, 0) || math.IsNaN(units) {
		return 0
	}
	return units
}

// Stops places the stop-loss and take-profit levels around entry. A BUY has
// its stop below and target above; a SELL is mirrored.
func Stops(dir market.Direction, entry, stopPips, takePips, pip float64) (stop, take float64) {
	s := dir.Sign()
	return entry - s*stopPips*pip, entry + s*takePips*pip
}
