package strategies

import (
	"fmt"

	"github.com/rustyeddy/fxjournal/indicators"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// MACross signals when the fast simple moving average crosses the slow one.
// A cross requires a strict change of side between the previous and the
// current bar; touching does not count.
type MACross struct {
	Fast int
	Slow int
}

func newMACross(p Params, _ rng.Source) (Evaluator, error) {
	if err := periods("moving_average", p, "fastMA", "slowMA"); err != nil {
		return nil, err
	}
	return &MACross{Fast: p.Int("fastMA"), Slow: p.Int("slowMA")}, nil
}

func (s *MACross) Name() string { return "moving_average" }

func (s *MACross) String() string {
	return fmt.Sprintf("moving_average(%d/%d)", s.Fast, s.Slow)
}

func (s *MACross) Evaluate(bars []market.Bar) (market.Direction, bool) {
	if len(bars) < max(s.Fast, s.Slow)+1 {
		return "", false
	}

	closes := indicators.Closes(bars)
	fastCur, fastPrev, ok1 := indicators.Last(indicators.MA(closes, s.Fast))
	slowCur, slowPrev, ok2 := indicators.Last(indicators.MA(closes, s.Slow))
	if !ok1 || !ok2 {
		return "", false
	}

	return crossOf(fastPrev, slowPrev, fastCur, slowCur)
}

// crossOf reports a BUY when a moves from strictly below b to strictly above,
// and a SELL for the mirror move.
func crossOf(aPrev, bPrev, aCur, bCur float64) (market.Direction, bool) {
	switch {
	case aPrev < bPrev && aCur > bCur:
		return market.Buy, true
	case aPrev > bPrev && aCur < bCur:
		return market.Sell, true
	}
	return "", false
}
