package indicators

// MACDResult holds the MACD line, its signal line and the histogram. All three
// are aligned to the signal line: index i of each refers to the same close and
// the last element refers to the newest close.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast) - EMA(slow) aligned on the same close, and a signal
// line equal to EMA(signal) of that series.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	if fast <= 0 || slow <= 0 || signal <= 0 || fast > slow {
		return MACDResult{}
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	if slowEMA == nil {
		return MACDResult{}
	}

	// fastEMA[k] ends at close k+fast-1, slowEMA[k] at close k+slow-1.
	offset := slow - fast
	line := make([]float64, len(slowEMA))
	for k := range slowEMA {
		line[k] = fastEMA[k+offset] - slowEMA[k]
	}

	sig := EMA(line, signal)
	if sig == nil {
		return MACDResult{}
	}

	aligned := line[signal-1:]
	hist := make([]float64, len(sig))
	for i := range sig {
		hist[i] = aligned[i] - sig[i]
	}
	return MACDResult{MACD: aligned, Signal: sig, Histogram: hist}
}
