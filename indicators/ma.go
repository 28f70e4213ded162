package indicators

// MA returns the simple moving average of every trailing window of period
// closes. The result has len(closes)-period+1 values; result[0] is the mean of
// closes[0:period].
func MA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	out := make([]float64, 0, len(closes)-period+1)
	for i := period - 1; i < len(closes); i++ {
		sum := 0.0
		for _, c := range closes[i-period+1 : i+1] {
			sum += c
		}
		out = append(out, sum/float64(period))
	}
	return out
}

// EMA returns the exponential moving average seeded with the SMA of the first
// period closes, then smoothed with multiplier 2/(period+1). The seed is the
// first value, followed by one value per remaining close.
func EMA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for _, c := range closes[:period] {
		sma += c
	}
	ema := sma / float64(period)

	out := make([]float64, 0, len(closes)-period+1)
	out = append(out, ema)
	for _, c := range closes[period:] {
		ema = (c-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out
}
