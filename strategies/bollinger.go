package strategies

import (
	"github.com/rustyeddy/fxjournal/indicators"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// BollingerBreakout buys when the close breaks below the lower band and sells
// when it breaks above the upper band.
type BollingerBreakout struct {
	Period int
	StdDev float64
}

func newBollingerBreakout(p Params, _ rng.Source) (Evaluator, error) {
	if err := periods("bollinger", p, "period"); err != nil {
		return nil, err
	}
	if err := positive("bollinger", p, "stdDev"); err != nil {
		return nil, err
	}
	return &BollingerBreakout{Period: p.Int("period"), StdDev: p["stdDev"]}, nil
}

func (s *BollingerBreakout) Name() string { return "bollinger" }

func (s *BollingerBreakout) Evaluate(bars []market.Bar) (market.Direction, bool) {
	if len(bars) < s.Period+1 {
		return "", false
	}

	bands := indicators.Bollinger(indicators.Closes(bars), s.Period, s.StdDev)
	upper, upperPrev, ok1 := indicators.Last(bands.Upper)
	lower, lowerPrev, ok2 := indicators.Last(bands.Lower)
	if !ok1 || !ok2 {
		return "", false
	}

	price := bars[len(bars)-1].Close
	prevPrice := bars[len(bars)-2].Close

	switch {
	case prevPrice >= lowerPrev && price < lower:
		return market.Buy, true
	case prevPrice <= upperPrev && price > upper:
		return market.Sell, true
	}
	return "", false
}
