package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
)

// DataSource supplies the bar series for a run and a short description of
// where it came from.
type DataSource interface {
	Bars(ctx context.Context, cfg Config) (bars []market.Bar, dataset string, err error)
}

// SyntheticData generates a random walk sized by the config's period and
// timeframe.
type SyntheticData struct {
	Rand       rng.Source
	Volatility float64 // 0 uses market.DefaultVolatility
	Now        func() time.Time
	Label      string
}

func (s SyntheticData) Bars(_ context.Context, cfg Config) ([]market.Bar, string, error) {
	g := market.NewGenerator(s.Rand)
	if s.Rand == nil {
		g.Rand = rng.New(0)
	}
	if s.Volatility > 0 {
		g.Volatility = s.Volatility
	}
	if s.Now != nil {
		g.Now = s.Now
	}

	bars, err := g.Generate(cfg.CurrencyPair, cfg.Period, cfg.Timeframe)
	if err != nil {
		return nil, "", err
	}

	label := s.Label
	if label == "" {
		label = "synthetic"
	}
	return bars, label, nil
}

// FileData loads bars from one CSV file or a doublestar glob of them.
type FileData struct {
	Pattern string
}

func (f FileData) Bars(ctx context.Context, _ Config) ([]market.Bar, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	bars, err := market.LoadBarsGlob(f.Pattern)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", f.Pattern, err)
	}
	return bars, f.Pattern, nil
}

// StaticData serves a fixed series.
type StaticData struct {
	Series []market.Bar
	Label  string
}

func (s StaticData) Bars(context.Context, Config) ([]market.Bar, string, error) {
	return s.Series, s.Label, nil
}
