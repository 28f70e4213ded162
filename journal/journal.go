// Package journal records what a backtest did: closed trades, the equity
// curve and a summary of each run. Sinks write to CSV files or SQLite; the
// SQLite store doubles as a small key-value store for saved strategies.
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/fxjournal/market"
)

// Close reasons.
const (
	CloseStopLoss   = "STOP_LOSS"
	CloseTakeProfit = "TAKE_PROFIT"
	CloseEndOfTest  = "END_OF_TEST"
)

// Position status values.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

var ErrNotFound = errors.New("journal: not found")

// TradeRecord is a closed trade. Once appended to a run's trade list it is
// never modified.
type TradeRecord struct {
	ID          string
	RunID       string
	Pair        string
	Direction   market.Direction
	EntryPrice  float64
	EntryTime   time.Time
	Quantity    float64
	StopLoss    float64
	TakeProfit  float64
	ExitPrice   float64
	ExitTime    time.Time
	ProfitLoss  float64
	CloseReason string
	Status      string
	Notes       string
}

// EquitySnapshot is the account state after bar Index was processed.
// Drawdown and MaxDrawdown are fractions of the peak equity.
type EquitySnapshot struct {
	RunID       string
	Index       int
	Time        time.Time
	Capital     float64
	Equity      float64
	Drawdown    float64
	MaxDrawdown float64
}

// Journal receives every closed trade and equity snapshot of a run.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
