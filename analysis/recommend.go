package analysis

type Kind string

const (
	Warning  Kind = "WARNING"
	Positive Kind = "POSITIVE"
	Info     Kind = "INFO"
	Success  Kind = "SUCCESS"
)

type Priority string

const (
	High   Priority = "HIGH"
	Medium Priority = "MEDIUM"
	Low    Priority = "LOW"
)

// Recommendation is a short piece of advice derived from Performance.
type Recommendation struct {
	Kind     Kind
	Message  string
	Priority Priority
}

func (r Recommendation) String() string {
	return string(r.Kind) + ": " + r.Message
}

// MinSampleTrades is the trade count below which results are flagged as
// statistically thin.
const MinSampleTrades = 10

// Recommendations returns advice for p in a fixed order.
func Recommendations(p Performance) []Recommendation {
	var out []Recommendation

	if p.TotalTrades > 0 && p.WinRate < 40 {
		out = append(out, Recommendation{Warning, "Low win rate detected. Consider reviewing your strategy.", High})
	}
	if p.TotalTrades > 0 && p.ProfitFactor < 1 {
		out = append(out, Recommendation{Warning, "Profit factor below 1. Your losses exceed your wins.", High})
	}
	if p.LosingTrades > 0 && -p.LargestLoss < 2*p.AvgLoss {
		out = append(out, Recommendation{Positive, "Good risk management - no outlier losses detected.", Low})
	}
	if p.TotalTrades < MinSampleTrades {
		out = append(out, Recommendation{Info, "More trade data needed for accurate analysis.", Medium})
	}
	if p.WinRate > 60 && p.ProfitFactor > 2 {
		out = append(out, Recommendation{Success, "Excellent performance! Keep following your strategy.", Low})
	}
	return out
}
