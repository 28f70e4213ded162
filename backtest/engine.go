// Package backtest simulates a strategy over a bar series: one position at a
// time, market entries at the bar close, stop and take checked on each bar's
// range, and a mark-to-market equity curve with running drawdown.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/fxjournal/id"
	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/risk"
	"github.com/rustyeddy/fxjournal/strategies"
)

// Engine runs one configured strategy. An Engine keeps no state between
// Run calls; each call owns a fresh State.
type Engine struct {
	cfg  Config
	eval strategies.Evaluator
	pair string
	pip  float64

	journal journal.Journal
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Engine)

// WithJournal sends every closed trade and equity snapshot to j.
func WithJournal(j journal.Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithLogger sets the logger; entries and exits are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock sets the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDs sets the generator for run and position IDs.
func WithIDs(next func() string) Option {
	return func(e *Engine) {
		if next != nil {
			e.newID = next
		}
	}
}

func NewEngine(cfg Config, eval strategies.Evaluator, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: invalid config: %w", err)
	}
	if eval == nil {
		return nil, errors.New("backtest: nil evaluator")
	}

	e := &Engine{
		cfg:     cfg,
		eval:    eval,
		pair:    cfg.Pair(),
		pip:     market.PipSize(cfg.CurrencyPair),
		journal: journal.Nop{},
		log:     zap.NewNop(),
		now:     time.Now,
		newID:   id.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Run simulates the strategy over bars, which must be non-empty and strictly
// increasing in time. Bars before strategies.Warmup are history only.
func (e *Engine) Run(ctx context.Context, bars []market.Bar) (*Result, error) {
	if err := market.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	runID := e.newID()
	st := newState(e.cfg.InitialCapital)
	log := e.log.With(zap.String("run", runID), zap.String("strategy", e.eval.Name()), zap.String("pair", e.pair))

	first := bars[min(strategies.Warmup, len(bars))-1]
	if err := e.snapshot(runID, 0, first.Time, st, 0); err != nil {
		return nil, err
	}

	for i := strategies.Warmup; i < len(bars); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := bars[i]

		dir, fired := e.eval.Evaluate(bars[:i+1])

		if st.Position != nil {
			if px, reason, hit := checkExit(*st.Position, bar); hit {
				if err := e.closePosition(log, runID, st, bar.Time, px, reason); err != nil {
					return nil, err
				}
			}
		}

		if fired && st.Position == nil {
			if !dir.Valid() {
				log.Warn("ignoring signal with unknown direction", zap.String("direction", string(dir)), zap.Int("bar", i))
			} else {
				e.openPosition(log, st, bar, dir)
			}
		}

		dd := st.push(st.MarkToMarket(bar.Close))
		if err := e.snapshot(runID, len(st.Equity)-1, bar.Time, st, dd); err != nil {
			return nil, err
		}
	}

	if st.Position != nil {
		last := bars[len(bars)-1]
		if err := e.closePosition(log, runID, st, last.Time, last.Close, journal.CloseEndOfTest); err != nil {
			return nil, err
		}
	}

	res := e.result(runID, st, bars)
	log.Debug("backtest complete",
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("final_equity", res.Metrics.FinalEquity),
		zap.Float64("max_drawdown", res.Metrics.MaxDrawdown),
	)
	return res, nil
}

func (e *Engine) openPosition(log *zap.Logger, st *State, bar market.Bar, dir market.Direction) {
	entry := bar.Close
	qty := risk.Size(st.Capital, e.cfg.RiskPerTrade, e.cfg.StopLossPips, e.pip)
	if qty <= 0 {
		log.Debug("skipping entry with zero size", zap.Float64("capital", st.Capital), zap.Time("time", bar.Time))
		return
	}
	stop, take := risk.Stops(dir, entry, e.cfg.StopLossPips, e.cfg.TakeProfitPips, e.pip)

	p := &Position{
		ID:         e.newID(),
		Pair:       e.pair,
		Direction:  dir,
		EntryPrice: entry,
		EntryTime:  bar.Time,
		Quantity:   qty,
		StopLoss:   stop,
		TakeProfit: take,
		Status:     journal.StatusOpen,
	}
	st.Capital -= p.Notional()
	st.Position = p

	log.Debug("open",
		zap.String("direction", string(dir)),
		zap.Float64("entry", entry),
		zap.Float64("qty", qty),
		zap.Float64("stop", stop),
		zap.Float64("take", take),
		zap.Float64("risk", risk.PlannedRisk(qty, entry, stop)),
		zap.Float64("rr", risk.RR(entry, stop, take)),
		zap.Time("time", bar.Time),
	)
}

func (e *Engine) closePosition(log *zap.Logger, runID string, st *State, at time.Time, px float64, reason string) error {
	p := st.Position
	tr := p.Close(runID, at, px, reason)

	st.Capital += p.Value(px) + tr.ProfitLoss
	st.Position = nil
	st.Trades = append(st.Trades, tr)

	log.Debug("close",
		zap.String("direction", string(p.Direction)),
		zap.Float64("entry", p.EntryPrice),
		zap.Float64("exit", px),
		zap.String("reason", reason),
		zap.Float64("pl", tr.ProfitLoss),
		zap.Time("time", at),
	)

	if err := e.journal.RecordTrade(tr); err != nil {
		return fmt.Errorf("backtest: journal trade: %w", err)
	}
	return nil
}

func (e *Engine) snapshot(runID string, idx int, at time.Time, st *State, dd float64) error {
	err := e.journal.RecordEquity(journal.EquitySnapshot{
		RunID:       runID,
		Index:       idx,
		Time:        at,
		Capital:     st.Capital,
		Equity:      st.Equity[idx],
		Drawdown:    dd,
		MaxDrawdown: st.MaxDrawdown,
	})
	if err != nil {
		return fmt.Errorf("backtest: journal equity: %w", err)
	}
	return nil
}
