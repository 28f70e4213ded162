// Package analysis summarises closed trades and equity curves: win/loss
// statistics, Sharpe ratio, drawdown, per-period and per-pair breakdowns and
// plain-language recommendations.
package analysis

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxjournal/journal"
)

// Performance is the headline statistics of a set of closed trades.
type Performance struct {
	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	BreakEvenTrades int

	WinRate     float64 // percent
	TotalProfit float64
	GrossProfit float64
	GrossLoss   float64 // magnitude

	// ProfitFactor is GrossProfit/GrossLoss; +Inf when there are wins and no
	// losses, 0 when there are neither.
	ProfitFactor float64

	LargestWin  float64
	LargestLoss float64 // most negative P/L, 0 without losses
	AvgWin      float64
	AvgLoss     float64 // magnitude
	Expectancy  float64
}

// Analyze computes Performance over trades.
func Analyze(trades []journal.TradeRecord) Performance {
	p := Performance{TotalTrades: len(trades)}

	total, wins, losses := decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range trades {
		pl := t.ProfitLoss
		total = total.Add(dec(pl))

		switch {
		case pl > 0:
			p.WinningTrades++
			wins = wins.Add(dec(pl))
			p.LargestWin = math.Max(p.LargestWin, pl)
		case pl < 0:
			p.LosingTrades++
			losses = losses.Add(dec(-pl))
			p.LargestLoss = math.Min(p.LargestLoss, pl)
		default:
			p.BreakEvenTrades++
		}
	}

	p.TotalProfit = total.InexactFloat64()
	p.GrossProfit = wins.InexactFloat64()
	p.GrossLoss = losses.InexactFloat64()

	if p.TotalTrades > 0 {
		p.WinRate = float64(p.WinningTrades) / float64(p.TotalTrades) * 100
	}
	if p.WinningTrades > 0 {
		p.AvgWin = p.GrossProfit / float64(p.WinningTrades)
	}
	if p.LosingTrades > 0 {
		p.AvgLoss = p.GrossLoss / float64(p.LosingTrades)
	}

	switch {
	case p.GrossLoss > 0:
		p.ProfitFactor = p.GrossProfit / p.GrossLoss
	case p.GrossProfit > 0:
		p.ProfitFactor = math.Inf(1)
	}

	if p.TotalTrades > 0 {
		wr := p.WinRate / 100
		p.Expectancy = wr*p.AvgWin - (1-wr)*p.AvgLoss
	}
	return p
}

// dec converts a finite float to a decimal; NaN and ±Inf become zero.
func dec(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}
