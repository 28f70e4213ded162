package analysis

import (
	"sort"

	"github.com/rustyeddy/fxjournal/journal"
)

// PairStats aggregates the trades of one currency pair.
type PairStats struct {
	Pair      string
	Trades    int
	Winning   int
	Profit    float64
	WinRate   float64 // percent
	AvgProfit float64
}

// ByPair groups trades by pair, sorted by pair name.
func ByPair(trades []journal.TradeRecord) []PairStats {
	idx := make(map[string]int)
	var out []PairStats
	for _, t := range trades {
		i, ok := idx[t.Pair]
		if !ok {
			i = len(out)
			idx[t.Pair] = i
			out = append(out, PairStats{Pair: t.Pair})
		}
		s := &out[i]
		s.Trades++
		s.Profit += t.ProfitLoss
		if t.ProfitLoss > 0 {
			s.Winning++
		}
	}

	for i := range out {
		s := &out[i]
		s.WinRate = float64(s.Winning) / float64(s.Trades) * 100
		s.AvgProfit = s.Profit / float64(s.Trades)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}
