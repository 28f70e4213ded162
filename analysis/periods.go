package analysis

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxjournal/journal"
)

// Period selects how trades are bucketed by entry time.
type Period string

const (
	Day   Period = "day"
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// Bucket aggregates the trades entered within one period.
type Bucket struct {
	Trades  int
	Winning int
	Profit  float64
}

// Key returns the bucket key of t for p, computed in UTC. Weeks start on
// Sunday and are keyed by that date.
func (p Period) Key(t time.Time) (string, error) {
	t = t.UTC()
	switch p {
	case Day:
		return t.Format("2006-01-02"), nil
	case Week:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format("2006-01-02"), nil
	case Month:
		return t.Format("2006-01"), nil
	case Year:
		return t.Format("2006"), nil
	}
	return "", fmt.Errorf("unknown period %q", string(p))
}

// ByPeriod groups trades by the period containing their entry time.
func ByPeriod(trades []journal.TradeRecord, p Period) (map[string]Bucket, error) {
	sums := make(map[string]decimal.Decimal)
	out := make(map[string]Bucket)
	for _, t := range trades {
		key, err := p.Key(t.EntryTime)
		if err != nil {
			return nil, err
		}

		b := out[key]
		b.Trades++
		if t.ProfitLoss > 0 {
			b.Winning++
		}
		out[key] = b
		sums[key] = sums[key].Add(dec(t.ProfitLoss))
	}

	for k, b := range out {
		b.Profit = sums[k].InexactFloat64()
		out[k] = b
	}
	return out, nil
}

// Monthly groups trades by entry month, keyed "YYYY-MM".
func Monthly(trades []journal.TradeRecord) map[string]Bucket {
	out, _ := ByPeriod(trades, Month)
	return out
}
