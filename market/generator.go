package market

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/fxjournal/rng"
)

// DefaultVolatility is the per-bar random walk amplitude (0.1%).
const DefaultVolatility = 0.001

// Generator produces synthetic OHLCV bars from a bounded random walk.
type Generator struct {
	Rand       rng.Source
	Volatility float64
	Now        func() time.Time
}

func NewGenerator(src rng.Source) *Generator {
	return &Generator{
		Rand:       src,
		Volatility: DefaultVolatility,
		Now:        time.Now,
	}
}

// Generate returns days worth of bars at timeframe for pair, ending near now.
// The walk never drops below half of the instrument's base price.
func (g *Generator) Generate(pair string, days int, timeframe string) ([]Bar, error) {
	if days <= 0 {
		return nil, fmt.Errorf("generate: days must be positive, got %d", days)
	}
	step, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if g.Rand == nil {
		return nil, fmt.Errorf("generate: nil random source")
	}

	vol := g.Volatility
	if vol <= 0 {
		vol = DefaultVolatility
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	meta, _ := Lookup(pair)
	base := meta.BasePrice
	floor := base * 0.5

	n := int(time.Duration(days) * 24 * time.Hour / step)
	start := now().UTC().Add(-time.Duration(days) * 24 * time.Hour).Truncate(step)

	bars := make([]Bar, 0, n)
	price := base
	for i := 0; i < n; i++ {
		price += (g.Rand.Float64() - 0.5) * 2 * vol * price
		price = math.Max(price, floor)

		open := price - g.Rand.Float64()*vol*price
		high := price + g.Rand.Float64()*vol*price
		low := price - g.Rand.Float64()*vol*price

		bars = append(bars, Bar{
			Time:   start.Add(time.Duration(i) * step),
			Open:   open,
			High:   math.Max(high, math.Max(open, price)),
			Low:    math.Min(low, math.Min(open, price)),
			Close:  price,
			Volume: g.Rand.Float64() * 1000,
		})
	}
	return bars, nil
}
