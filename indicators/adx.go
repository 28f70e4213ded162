package indicators

import (
	"math"

	"github.com/rustyeddy/fxjournal/market"
)

// ADX returns Wilder's Average Directional Index over bars.
//
// The first period deltas between bars seed the smoothed true range and
// directional movement; the first ADX is the mean of the first period DX
// values, after which ADX is Wilder-smoothed. result[0] belongs to bar
// 2*period-1, so the result has len(bars)-2*period+1 values.
func ADX(bars []market.Bar, period int) []float64 {
	if period <= 0 || len(bars) < 2*period {
		return nil
	}

	n := float64(period)
	var (
		smTR, smPlus, smMinus float64
		dxSum, adx            float64
		out                   = make([]float64, 0, len(bars)-2*period+1)
	)

	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]

		tr := max(cur.High-cur.Low, math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close))

		up := cur.High - prev.High
		down := prev.Low - cur.Low
		var plusDM, minusDM float64
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}

		// i counts deltas: 1..period accumulate, then smooth.
		if i <= period {
			smTR += tr
			smPlus += plusDM
			smMinus += minusDM
			if i < period {
				continue
			}
		} else {
			smTR = smTR - smTR/n + tr
			smPlus = smPlus - smPlus/n + plusDM
			smMinus = smMinus - smMinus/n + minusDM
		}

		dx := directionalIndex(smPlus, smMinus, smTR)
		switch {
		case i < 2*period-1:
			dxSum += dx
		case i == 2*period-1:
			adx = (dxSum + dx) / n
			out = append(out, adx)
		default:
			adx = (adx*(n-1) + dx) / n
			out = append(out, adx)
		}
	}
	return out
}

func directionalIndex(smPlus, smMinus, smTR float64) float64 {
	if smTR <= 0 {
		return 0
	}
	plusDI := 100 * smPlus / smTR
	minusDI := 100 * smMinus / smTR
	if plusDI+minusDI <= 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}
