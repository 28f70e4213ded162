package strategies

import (
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// Random is a placeholder for user-defined strategies. It ignores the bars
// and fires on roughly 5% of calls, picking a side with a second draw.
// Param1 and Param2 are carried but unused.
type Random struct {
	Param1 float64
	Param2 float64

	src rng.Source
}

func newRandom(p Params, src rng.Source) (Evaluator, error) {
	if src == nil {
		src = rng.New(0)
	}
	return &Random{Param1: p["param1"], Param2: p["param2"], src: src}, nil
}

func (s *Random) Name() string { return "custom" }

func (s *Random) Evaluate(_ []market.Bar) (market.Direction, bool) {
	if s.src.Float64() <= 0.95 {
		return "", false
	}
	if s.src.Float64() > 0.5 {
		return market.Buy, true
	}
	return market.Sell, true
}
