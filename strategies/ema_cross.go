package strategies

import (
	"fmt"

	"github.com/rustyeddy/fxjournal/indicators"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// EMACross signals when the fast EMA crosses the slow one. With ADXMin > 0
// the cross only counts while ADX(ADXPeriod) is at least ADXMin, which keeps
// the strategy out of ranging markets.
type EMACross struct {
	Fast      int
	Slow      int
	ADXPeriod int
	ADXMin    float64
}

func newEMACross(p Params, _ rng.Source) (Evaluator, error) {
	if err := periods("ema_cross", p, "fastEMA", "slowEMA", "adxPeriod"); err != nil {
		return nil, err
	}
	if p["adxMin"] < 0 || p["adxMin"] > 100 {
		return nil, fmt.Errorf("strategy ema_cross: adxMin must be in [0, 100], got %g", p["adxMin"])
	}
	return &EMACross{
		Fast:      p.Int("fastEMA"),
		Slow:      p.Int("slowEMA"),
		ADXPeriod: p.Int("adxPeriod"),
		ADXMin:    p["adxMin"],
	}, nil
}

func (s *EMACross) Name() string { return "ema_cross" }

func (s *EMACross) String() string {
	return fmt.Sprintf("ema_cross(%d/%d adx(%d)>=%g)", s.Fast, s.Slow, s.ADXPeriod, s.ADXMin)
}

func (s *EMACross) Evaluate(bars []market.Bar) (market.Direction, bool) {
	if len(bars) < max(s.Fast, s.Slow)+1 {
		return "", false
	}

	closes := indicators.Closes(bars)
	fastCur, fastPrev, ok1 := indicators.Last(indicators.EMA(closes, s.Fast))
	slowCur, slowPrev, ok2 := indicators.Last(indicators.EMA(closes, s.Slow))
	if !ok1 || !ok2 {
		return "", false
	}

	dir, ok := crossOf(fastPrev, slowPrev, fastCur, slowCur)
	if !ok || s.ADXMin == 0 {
		return dir, ok
	}

	adx := indicators.ADX(bars, s.ADXPeriod)
	if len(adx) == 0 || adx[len(adx)-1] < s.ADXMin {
		return "", false
	}
	return dir, true
}
