package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/market"
	"github.com/rustyeddy/fxjournal/rng"
	"github.com/rustyeddy/fxjournal/strategies"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// flatBar has a range of one tenth of a pip around c.
func flatBar(i int, c float64) market.Bar {
	return market.Bar{Time: t0.Add(time.Duration(i) * time.Hour), Open: c, High: c + 0.00001, Low: c - 0.00001, Close: c}
}

// crossBars is a falling series whose 61st bar jumps far enough for the
// 10-bar average to cross above the 20-bar one, followed by flat bars.
func crossBars(jump float64, flat int) []market.Bar {
	var bars []market.Bar
	for i := 0; i < 60; i++ {
		bars = append(bars, flatBar(i, 2.0-0.001*float64(i)))
	}
	for i := 0; i <= flat; i++ {
		bars = append(bars, flatBar(60+i, jump))
	}
	return bars
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CurrencyPair = "EUR_USD"
	return cfg
}

type counter struct{ n int }

func (c *counter) next() string {
	c.n++
	return fmt.Sprintf("id-%03d", c.n)
}

func newTestEngine(t *testing.T, cfg Config, eval strategies.Evaluator, opts ...Option) *Engine {
	t.Helper()

	ids := &counter{}
	opts = append([]Option{
		WithIDs(ids.next),
		WithClock(func() time.Time { return t0 }),
	}, opts...)

	e, err := NewEngine(cfg, eval, opts...)
	require.NoError(t, err)
	return e
}

func maCross(t *testing.T) strategies.Evaluator {
	t.Helper()
	ev, err := strategies.New("moving_average", nil, nil)
	require.NoError(t, err)
	return ev
}

// script fires the given direction when the newest bar has that index.
type script map[int]market.Direction

func (s script) Name() string { return "script" }

func (s script) Evaluate(bars []market.Bar) (market.Direction, bool) {
	d, ok := s[len(bars)-1]
	return d, ok
}

// spy records everything sent to the journal.
type spy struct {
	trades    []journal.TradeRecord
	snapshots []journal.EquitySnapshot
	failOn    string
}

func (s *spy) RecordTrade(tr journal.TradeRecord) error {
	if s.failOn == "trade" {
		return errors.New("disk full")
	}
	s.trades = append(s.trades, tr)
	return nil
}

func (s *spy) RecordEquity(e journal.EquitySnapshot) error {
	if s.failOn == "equity" {
		return errors.New("disk full")
	}
	s.snapshots = append(s.snapshots, e)
	return nil
}

func (s *spy) Close() error { return nil }

func TestRunFlatThenJumpHasNoTrades(t *testing.T) {
	t.Parallel()

	var bars []market.Bar
	for i := 0; i < 50; i++ {
		bars = append(bars, flatBar(i, 1.0))
	}
	bars = append(bars, flatBar(50, 1.1))

	res, err := newTestEngine(t, testConfig(), maCross(t)).Run(context.Background(), bars)
	require.NoError(t, err)

	assert.Empty(t, res.Trades)
	assert.Len(t, res.Equity, 2)
	assert.Equal(t, 10000.0, res.Metrics.FinalEquity)
	assert.Equal(t, 0.0, res.Metrics.MaxDrawdown)
}

func TestRunCrossoverEndOfTest(t *testing.T) {
	t.Parallel()

	bars := crossBars(2.10, 5)
	res, err := newTestEngine(t, testConfig(), maCross(t)).Run(context.Background(), bars)
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, market.Buy, tr.Direction)
	assert.Equal(t, "EUR_USD", tr.Pair)
	assert.Equal(t, 2.10, tr.EntryPrice)
	assert.True(t, tr.EntryTime.Equal(bars[60].Time))
	assert.Equal(t, 100000.0, tr.Quantity)
	assert.InDelta(t, 2.098, tr.StopLoss, 1e-12)
	assert.InDelta(t, 2.104, tr.TakeProfit, 1e-12)

	assert.Equal(t, journal.CloseEndOfTest, tr.CloseReason)
	assert.Equal(t, journal.StatusClosed, tr.Status)
	assert.Equal(t, 2.10, tr.ExitPrice)
	assert.True(t, tr.ExitTime.Equal(bars[len(bars)-1].Time))
	assert.Equal(t, 0.0, tr.ProfitLoss)

	assert.Len(t, res.Equity, len(bars)-strategies.Warmup+1)
	for _, eq := range res.Equity {
		assert.InDelta(t, 10000.0, eq, 1e-6)
	}
}

func TestRunCrossoverExits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		low    float64
		high   float64
		reason string
		pl     float64
	}{
		{"stop loss", 2.0979, 2.1001, journal.CloseStopLoss, -200},
		{"take profit", 2.0999, 2.1041, journal.CloseTakeProfit, 400},
		{"stop wins a tie", 2.097, 2.105, journal.CloseStopLoss, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := crossBars(2.10, 3)
			bars[61].Low = tt.low
			bars[61].High = tt.high

			res, err := newTestEngine(t, testConfig(), maCross(t)).Run(context.Background(), bars)
			require.NoError(t, err)

			require.Len(t, res.Trades, 1)
			tr := res.Trades[0]
			assert.Equal(t, tt.reason, tr.CloseReason)
			if tt.reason == journal.CloseStopLoss {
				assert.Equal(t, tr.StopLoss, tr.ExitPrice)
			} else {
				assert.Equal(t, tr.TakeProfit, tr.ExitPrice)
			}
			assert.True(t, tr.ExitTime.Equal(bars[61].Time))
			assert.InDelta(t, tt.pl, tr.ProfitLoss, 1e-6)
			// qty×entry was debited; qty×exit plus P/L is credited back.
			assert.InDelta(t, 10000+2*tt.pl, res.Metrics.FinalEquity, 1e-6)
		})
	}
}

func TestRunSellSide(t *testing.T) {
	t.Parallel()

	var bars []market.Bar
	for i := 0; i < 60; i++ {
		bars = append(bars, flatBar(i, 1.0+0.001*float64(i)))
	}
	bars = append(bars, flatBar(60, 0.90))
	stop := flatBar(61, 0.90)
	stop.High = 0.9025
	bars = append(bars, stop, flatBar(62, 0.90))

	res, err := newTestEngine(t, testConfig(), maCross(t)).Run(context.Background(), bars)
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, market.Sell, tr.Direction)
	assert.InDelta(t, 0.902, tr.StopLoss, 1e-12)
	assert.InDelta(t, 0.896, tr.TakeProfit, 1e-12)
	assert.Equal(t, journal.CloseStopLoss, tr.CloseReason)
	assert.InDelta(t, -200, tr.ProfitLoss, 1e-6)
}

func TestRunUsesInstrumentPip(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CurrencyPair = "USD/JPY"

	var bars []market.Bar
	for i := 0; i < 52; i++ {
		bars = append(bars, flatBar(i, 150.0))
	}

	res, err := newTestEngine(t, cfg, script{50: market.Buy}).Run(context.Background(), bars)
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, "USD_JPY", tr.Pair)
	assert.Equal(t, 1000.0, tr.Quantity)
	assert.InDelta(t, 149.8, tr.StopLoss, 1e-9)
	assert.InDelta(t, 150.4, tr.TakeProfit, 1e-9)
}

func TestRunSignalsIgnoredWhileOpen(t *testing.T) {
	t.Parallel()

	var bars []market.Bar
	for i := 0; i < 60; i++ {
		bars = append(bars, flatBar(i, 1.1))
	}

	sig := script{50: market.Buy, 52: market.Sell, 55: market.Buy}
	res, err := newTestEngine(t, testConfig(), sig).Run(context.Background(), bars)
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	assert.True(t, res.Trades[0].EntryTime.Equal(bars[50].Time))
	assert.Equal(t, journal.CloseEndOfTest, res.Trades[0].CloseReason)
}

func TestRunReentersOnExitBar(t *testing.T) {
	t.Parallel()

	var bars []market.Bar
	for i := 0; i < 56; i++ {
		bars = append(bars, flatBar(i, 1.1))
	}
	bars[53].Low = 1.0970

	sig := script{50: market.Buy, 53: market.Sell}
	res, err := newTestEngine(t, testConfig(), sig).Run(context.Background(), bars)
	require.NoError(t, err)

	require.Len(t, res.Trades, 2)
	assert.Equal(t, journal.CloseStopLoss, res.Trades[0].CloseReason)
	assert.True(t, res.Trades[0].ExitTime.Equal(bars[53].Time))
	assert.Equal(t, market.Sell, res.Trades[1].Direction)
	assert.True(t, res.Trades[1].EntryTime.Equal(bars[53].Time))
}

func TestRunFractionalSize(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.InitialCapital = 0.001
	cfg.RiskPerTrade = 1

	var bars []market.Bar
	for i := 0; i < 55; i++ {
		bars = append(bars, flatBar(i, 1.1))
	}

	res, err := newTestEngine(t, cfg, script{50: market.Buy}).Run(context.Background(), bars)
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.InDelta(t, 0.005, res.Trades[0].Quantity, 1e-12)
}

func TestRunSkipsEntryWithoutCapital(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.InitialCapital = 100
	cfg.RiskPerTrade = 60

	var bars []market.Bar
	for i := 0; i < 56; i++ {
		bars = append(bars, flatBar(i, 1.1))
	}
	bars[51].Low = 1.0970

	// The stop-out costs 60 twice over, leaving capital at -20.
	res, err := newTestEngine(t, cfg, script{50: market.Buy, 53: market.Buy}).Run(context.Background(), bars)
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, journal.CloseStopLoss, res.Trades[0].CloseReason)
	assert.InDelta(t, -20, res.Metrics.FinalEquity, 1e-6)
}

func TestRunCashLedger(t *testing.T) {
	t.Parallel()

	buy := func(low, high float64) []market.Bar {
		bars := crossBars(2.10, 3)
		bars[61].Low, bars[61].High = low, high
		return bars
	}
	sell := func(low, high float64) []market.Bar {
		var bars []market.Bar
		for i := 0; i < 60; i++ {
			bars = append(bars, flatBar(i, 1.0+0.001*float64(i)))
		}
		for i := 60; i < 64; i++ {
			bars = append(bars, flatBar(i, 0.90))
		}
		bars[61].Low, bars[61].High = low, high
		return bars
	}

	// capital - qty×entry + qty×exit + P/L
	tests := []struct {
		name   string
		bars   []market.Bar
		dir    market.Direction
		pl     float64
		equity float64
	}{
		{"buy take profit", buy(2.0999, 2.1041), market.Buy, 400, 10000 - 210000 + 210400 + 400},
		{"buy stop loss", buy(2.0979, 2.1001), market.Buy, -200, 10000 - 210000 + 209800 - 200},
		{"sell take profit", sell(0.8959, 0.9001), market.Sell, 400, 10000 - 90000 + 89600 + 400},
		{"sell stop loss", sell(0.8999, 0.9021), market.Sell, -200, 10000 - 90000 + 90200 - 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestEngine(t, testConfig(), maCross(t)).Run(context.Background(), tt.bars)
			require.NoError(t, err)

			require.Len(t, res.Trades, 1)
			assert.Equal(t, tt.dir, res.Trades[0].Direction)
			assert.InDelta(t, tt.pl, res.Trades[0].ProfitLoss, 1e-6)
			assert.InDelta(t, tt.equity, res.Metrics.FinalEquity, 1e-6)
			assert.InDelta(t, tt.equity, res.Equity[len(res.Equity)-1], 1e-6)
		})
	}
}

func TestRunMarksOpenPosition(t *testing.T) {
	t.Parallel()

	bars := crossBars(2.10, 3)
	bars[61].Close = 2.101
	bars[61].High = 2.1011

	res, err := newTestEngine(t, testConfig(), maCross(t)).Run(context.Background(), bars)
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)

	// Bar i lands at Equity[i-Warmup+1].
	opened := res.Equity[60-strategies.Warmup+1]
	marked := res.Equity[61-strategies.Warmup+1]

	// capital + qty×close + unrealised P/L, with capital = 10000 - qty×entry.
	assert.InDelta(t, 10000-210000+210000+0, opened, 1e-6)
	assert.InDelta(t, 10000-210000+210100+100, marked, 1e-6)

	assert.Equal(t, journal.CloseEndOfTest, res.Trades[0].CloseReason)
	assert.InDelta(t, 10000, res.Metrics.FinalEquity, 1e-6)
	assert.InDelta(t, (10200.0-10000)/10200, res.Metrics.MaxDrawdown, 1e-9)
}

func TestRunShortSeries(t *testing.T) {
	t.Parallel()

	var bars []market.Bar
	for i := 0; i < 10; i++ {
		bars = append(bars, flatBar(i, 1.1))
	}

	sp := &spy{}
	res, err := newTestEngine(t, testConfig(), maCross(t), WithJournal(sp)).Run(context.Background(), bars)
	require.NoError(t, err)

	assert.Equal(t, []float64{10000}, res.Equity)
	assert.Empty(t, res.Trades)
	require.Len(t, sp.snapshots, 1)
	assert.True(t, sp.snapshots[0].Time.Equal(bars[9].Time))
}

func TestRunInvariants(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 8; seed++ {
		for _, name := range []string{"moving_average", "rsi", "bollinger", "macd", "ema_cross", "custom"} {
			t.Run(fmt.Sprintf("%s/%d", name, seed), func(t *testing.T) {
				cfg := testConfig()
				cfg.Strategy = name
				cfg.Timeframe = "1h"
				cfg.Period = 20

				gen := market.NewGenerator(rng.New(seed))
				gen.Now = func() time.Time { return t0 }
				bars, err := gen.Generate(cfg.CurrencyPair, cfg.Period, cfg.Timeframe)
				require.NoError(t, err)

				ev, err := strategies.New(name, nil, rng.New(seed))
				require.NoError(t, err)

				sp := &spy{}
				res, err := newTestEngine(t, cfg, ev, WithJournal(sp)).Run(context.Background(), bars)
				require.NoError(t, err)

				assert.Len(t, res.Equity, len(bars)-strategies.Warmup+1)
				assert.Len(t, sp.snapshots, len(res.Equity))
				assert.Equal(t, res.Trades, sp.trades)

				for i := 1; i < len(sp.snapshots); i++ {
					assert.GreaterOrEqual(t, sp.snapshots[i].MaxDrawdown, sp.snapshots[i-1].MaxDrawdown)
					assert.Equal(t, i, sp.snapshots[i].Index)
				}

				sum := 0.0
				for i, tr := range res.Trades {
					if i > 0 {
						assert.False(t, tr.EntryTime.Before(res.Trades[i-1].ExitTime), "overlapping positions")
					}
					assert.False(t, tr.ExitTime.Before(tr.EntryTime))

					move := tr.ExitPrice - tr.EntryPrice
					if tr.Direction == market.Sell {
						move = -move
					}
					assert.InDelta(t, move*tr.Quantity, tr.ProfitLoss, 1e-6)
					sum += tr.ProfitLoss
				}

				assert.InDelta(t, cfg.InitialCapital+2*sum, res.Metrics.FinalEquity, 1e-6)
				assert.GreaterOrEqual(t, res.Metrics.MaxDrawdown, 0.0)

				monthly := 0
				for _, b := range res.Monthly {
					monthly += b.Trades
				}
				assert.Equal(t, len(res.Trades), monthly)
			})
		}
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig(), maCross(t))

	_, err := e.Run(context.Background(), nil)
	assert.ErrorIs(t, err, market.ErrEmpty)

	bars := []market.Bar{flatBar(1, 1.1), flatBar(0, 1.1)}
	_, err = e.Run(context.Background(), bars)
	assert.ErrorIs(t, err, market.ErrUnordered)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx, crossBars(2.10, 3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunJournalErrors(t *testing.T) {
	t.Parallel()

	_, err := newTestEngine(t, testConfig(), maCross(t), WithJournal(&spy{failOn: "equity"})).
		Run(context.Background(), crossBars(2.10, 3))
	assert.ErrorContains(t, err, "journal equity")

	_, err = newTestEngine(t, testConfig(), maCross(t), WithJournal(&spy{failOn: "trade"})).
		Run(context.Background(), crossBars(2.10, 3))
	assert.ErrorContains(t, err, "journal trade")
}

func TestNewEngineErrors(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.StopLossPips = 0
	_, err = NewEngine(cfg, maCross(t))
	assert.Error(t, err)
}

func TestRunIsRepeatable(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig(), maCross(t))
	bars := crossBars(2.10, 3)
	bars[61].Low = 2.0979

	a, err := e.Run(context.Background(), bars)
	require.NoError(t, err)
	b, err := e.Run(context.Background(), bars)
	require.NoError(t, err)

	assert.Equal(t, a.Equity, b.Equity)
	assert.Equal(t, len(a.Trades), len(b.Trades))
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunLogsPositions(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	bars := crossBars(2.10, 5)
	sig := script{55: market.Direction("HOLD"), 60: market.Buy}

	_, err := newTestEngine(t, testConfig(), sig, WithLogger(zap.New(core))).Run(context.Background(), bars)
	require.NoError(t, err)

	warn := logs.FilterMessage("ignoring signal with unknown direction").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
	assert.Equal(t, "HOLD", warn[0].ContextMap()["direction"])

	open := logs.FilterMessage("open").All()
	require.Len(t, open, 1)
	fields := open[0].ContextMap()
	assert.Equal(t, "id-001", fields["run"])
	assert.Equal(t, "EUR_USD", fields["pair"])
	assert.Equal(t, "BUY", fields["direction"])
	assert.InDelta(t, 200.0, fields["risk"], 1e-6)
	assert.InDelta(t, 2.0, fields["rr"], 1e-6)

	closed := logs.FilterMessage("close").All()
	require.Len(t, closed, 1)
	assert.Equal(t, journal.CloseEndOfTest, closed[0].ContextMap()["reason"])

	assert.Equal(t, 1, logs.FilterMessage("backtest complete").Len())
}
