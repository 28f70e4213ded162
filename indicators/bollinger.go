package indicators

import "math"

// Bands holds aligned Bollinger series; index i of each slice refers to the
// window ending at close period-1+i.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger returns MA(period) ± mult × the population standard deviation of
// each trailing window.
func Bollinger(closes []float64, period int, mult float64) Bands {
	middle := MA(closes, period)
	if middle == nil {
		return Bands{}
	}

	b := Bands{
		Upper:  make([]float64, len(middle)),
		Middle: middle,
		Lower:  make([]float64, len(middle)),
	}
	for i, m := range middle {
		variance := 0.0
		for _, c := range closes[i : i+period] {
			d := c - m
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))

		b.Upper[i] = m + mult*sd
		b.Lower[i] = m - mult*sd
	}
	return b
}
