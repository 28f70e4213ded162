package analysis

import (
	"time"

	"github.com/rustyeddy/fxjournal/journal"
)

// Report bundles every view of a trade list.
type Report struct {
	Summary         Performance
	ByPair          []PairStats
	ByMonth         map[string]Bucket
	Recommendations []Recommendation
	GeneratedAt     time.Time
}

// BuildReport analyses trades. now stamps the report.
func BuildReport(trades []journal.TradeRecord, now time.Time) Report {
	p := Analyze(trades)
	return Report{
		Summary:         p,
		ByPair:          ByPair(trades),
		ByMonth:         Monthly(trades),
		Recommendations: Recommendations(p),
		GeneratedAt:     now,
	}
}
