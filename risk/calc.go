package risk

import (
	"math"

	"github.com/rustyeddy/fxjournal/market"
)

// PlannedRisk is the amount lost if a position of units entered at entry is
// stopped out at stop, in quote currency.
func PlannedRisk(units, entry, stop float64) float64 {
	return units * math.Abs(entry-stop)
}

// RR is reward over risk for the given levels; 0 when entry equals stop.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskReward describes a trade plan in price and ratio terms.
type RiskReward struct {
	Risk   float64
	Reward float64
	Ratio  float64
	Valid  bool
}

// Plan computes RiskReward for dir. Valid is false when the stop or target
// sits on the wrong side of entry.
func Plan(dir market.Direction, entry, stop, take float64) RiskReward {
	s := dir.Sign()
	risk := s * (entry - stop)
	reward := s * (take - entry)

	rr := RiskReward{Risk: risk, Reward: reward}
	if risk <= 0 || reward <= 0 {
		return rr
	}
	rr.Ratio = reward / risk
	rr.Valid = true
	return rr
}
