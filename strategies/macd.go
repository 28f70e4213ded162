package strategies

import (
	"fmt"

	"github.com/rustyeddy/fxjournal/indicators"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// MACDCross signals when the MACD line crosses its signal line.
type MACDCross struct {
	Fast   int
	Slow   int
	Signal int
}

func newMACDCross(p Params, _ rng.Source) (Evaluator, error) {
	if err := periods("macd", p, "fastPeriod", "slowPeriod", "signalPeriod"); err != nil {
		return nil, err
	}
	if p["fastPeriod"] > p["slowPeriod"] {
		return nil, fmt.Errorf("strategy macd: fastPeriod %g > slowPeriod %g", p["fastPeriod"], p["slowPeriod"])
	}
	return &MACDCross{
		Fast:   p.Int("fastPeriod"),
		Slow:   p.Int("slowPeriod"),
		Signal: p.Int("signalPeriod"),
	}, nil
}

func (s *MACDCross) Name() string { return "macd" }

func (s *MACDCross) Evaluate(bars []market.Bar) (market.Direction, bool) {
	if len(bars) < s.Slow+s.Signal {
		return "", false
	}

	res := indicators.MACD(indicators.Closes(bars), s.Fast, s.Slow, s.Signal)
	line, linePrev, ok1 := indicators.Last(res.MACD)
	sig, sigPrev, ok2 := indicators.Last(res.Signal)
	if !ok1 || !ok2 {
		return "", false
	}
	return crossOf(linePrev, sigPrev, line, sig)
}
