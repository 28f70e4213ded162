package backtest

import (
	"time"

	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/market"
)

// Position is the single open position of a run.
type Position struct {
	ID         string
	Pair       string
	Direction  market.Direction
	EntryPrice float64
	EntryTime  time.Time
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
	Status     string
}

// ProfitLoss is the P/L of closing at price: (price-entry)*qty for a BUY,
// (entry-price)*qty for a SELL.
func (p Position) ProfitLoss(price float64) float64 {
	return p.Direction.Sign() * (price - p.EntryPrice) * p.Quantity
}

// Notional is the capital debited when the position was opened.
func (p Position) Notional() float64 {
	return p.Value(p.EntryPrice)
}

// Value is quantity × price.
func (p Position) Value(price float64) float64 {
	return p.Quantity * price
}

// Close turns the position into a closed trade.
func (p Position) Close(runID string, at time.Time, price float64, reason string) journal.TradeRecord {
	return journal.TradeRecord{
		ID:          p.ID,
		RunID:       runID,
		Pair:        p.Pair,
		Direction:   p.Direction,
		EntryPrice:  p.EntryPrice,
		EntryTime:   p.EntryTime,
		Quantity:    p.Quantity,
		StopLoss:    p.StopLoss,
		TakeProfit:  p.TakeProfit,
		ExitPrice:   price,
		ExitTime:    at,
		ProfitLoss:  p.ProfitLoss(price),
		CloseReason: reason,
		Status:      journal.StatusClosed,
	}
}

// checkExit evaluates stop and take on the bar's range. If both are inside
// the same bar the stop wins.
func checkExit(p Position, b market.Bar) (exitPx float64, reason string, hit bool) {
	switch p.Direction {
	case market.Buy:
		if b.Low <= p.StopLoss {
			return p.StopLoss, journal.CloseStopLoss, true
		}
		if b.High >= p.TakeProfit {
			return p.TakeProfit, journal.CloseTakeProfit, true
		}
	case market.Sell:
		if b.High >= p.StopLoss {
			return p.StopLoss, journal.CloseStopLoss, true
		}
		if b.Low <= p.TakeProfit {
			return p.TakeProfit, journal.CloseTakeProfit, true
		}
	}
	return 0, "", false
}

// State is the mutable state of one run. It is owned by a single Run call.
type State struct {
	Capital     float64
	Position    *Position
	Trades      []journal.TradeRecord
	Equity      []float64
	MaxDrawdown float64 // fraction of peak
	PeakEquity  float64
}

func newState(capital float64) *State {
	return &State{
		Capital:    capital,
		Equity:     []float64{capital},
		PeakEquity: capital,
	}
}

// MarkToMarket is what capital would be if the open position closed at
// price: capital + quantity×price + unrealised P/L.
func (s *State) MarkToMarket(price float64) float64 {
	if s.Position == nil {
		return s.Capital
	}
	return s.Capital + s.Position.Value(price) + s.Position.ProfitLoss(price)
}

// push appends an equity point and returns the current drawdown.
func (s *State) push(equity float64) float64 {
	s.Equity = append(s.Equity, equity)
	if equity > s.PeakEquity {
		s.PeakEquity = equity
	}
	dd := 0.0
	if s.PeakEquity > 0 {
		dd = (s.PeakEquity - equity) / s.PeakEquity
	}
	if dd > s.MaxDrawdown {
		s.MaxDrawdown = dd
	}
	return dd
}
