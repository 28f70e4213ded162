package indicators

// RSI returns the relative strength index using simple averages of the last
// period gains and losses. One value is produced per close from index period
// onward, so the result has len(closes)-period values.
//
// When the average loss is zero the RSI is 100.
func RSI(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	out := make([]float64, 0, len(gains)-period+1)
	for i := period; i <= len(gains); i++ {
		var g, l float64
		for j := i - period; j < i; j++ {
			g += gains[j]
			l += losses[j]
		}
		avgGain := g / float64(period)
		avgLoss := l / float64(period)

		if avgLoss == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100-100/(1+rs))
	}
	return out
}
