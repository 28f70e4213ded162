package strategies

import (
	"fmt"

	"github.com/rustyeddy/fxjournal/indicators"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// RSIThreshold buys when RSI drops through the oversold level and sells when
// it rises through the overbought level.
type RSIThreshold struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func newRSIThreshold(p Params, _ rng.Source) (Evaluator, error) {
	if err := periods("rsi", p, "period"); err != nil {
		return nil, err
	}
	over, under := p["overbought"], p["oversold"]
	if under < 0 || over > 100 || under >= over {
		return nil, fmt.Errorf("strategy rsi: need 0 <= oversold < overbought <= 100, got %g/%g", under, over)
	}
	return &RSIThreshold{Period: p.Int("period"), Overbought: over, Oversold: under}, nil
}

func (s *RSIThreshold) Name() string { return "rsi" }

func (s *RSIThreshold) Evaluate(bars []market.Bar) (market.Direction, bool) {
	if len(bars) < s.Period+2 {
		return "", false
	}

	cur, prev, ok := indicators.Last(indicators.RSI(indicators.Closes(bars), s.Period))
	if !ok {
		return "", false
	}

	switch {
	case prev >= s.Oversold && cur < s.Oversold:
		return market.Buy, true
	case prev <= s.Overbought && cur > s.Overbought:
		return market.Sell, true
	}
	return "", false
}
