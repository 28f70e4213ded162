package backtest

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxjournal/analysis"
	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/market"
)

// Metrics extends the trade statistics with equity-curve measures.
type Metrics struct {
	analysis.Performance

	MaxDrawdown    float64 // fraction of peak equity
	MaxDrawdownPct float64
	SharpeRatio    float64
	FinalEquity    float64
	TotalReturn    float64 // percent
}

// Result is everything a run produced.
type Result struct {
	RunID   string
	Config  Config
	Dataset string

	Trades  []journal.TradeRecord
	Equity  []float64
	Metrics Metrics
	Monthly map[string]analysis.Bucket

	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
}

func (e *Engine) result(runID string, st *State, bars []market.Bar) *Result {
	perf := analysis.Analyze(st.Trades)
	final := st.Equity[len(st.Equity)-1]

	return &Result{
		RunID:  runID,
		Config: e.cfg,
		Trades: st.Trades,
		Equity: st.Equity,
		Metrics: Metrics{
			Performance:    perf,
			MaxDrawdown:    st.MaxDrawdown,
			MaxDrawdownPct: st.MaxDrawdown * 100,
			SharpeRatio:    analysis.Sharpe(st.Equity),
			FinalEquity:    final,
			TotalReturn:    analysis.TotalReturn(e.cfg.InitialCapital, st.Equity),
		},
		Monthly:     analysis.Monthly(st.Trades),
		Start:       bars[0].Time,
		End:         bars[len(bars)-1].Time,
		GeneratedAt: e.now(),
	}
}

// Recommendations derives advice from the run's trade statistics.
func (r *Result) Recommendations() []analysis.Recommendation {
	return analysis.Recommendations(r.Metrics.Performance)
}

// Summary is the headline kept with a saved strategy.
func (r *Result) Summary() journal.Summary {
	m := r.Metrics
	return journal.Summary{
		TotalTrades:  m.TotalTrades,
		WinRate:      m.WinRate,
		TotalProfit:  m.TotalProfit,
		ProfitFactor: m.ProfitFactor,
		MaxDrawdown:  m.MaxDrawdown,
		SharpeRatio:  m.SharpeRatio,
	}
}

// JournalRun converts the result to the run summary stored by the journal.
func (r *Result) JournalRun() (journal.Run, error) {
	cfg, err := yaml.Marshal(r.Config)
	if err != nil {
		return journal.Run{}, err
	}

	var notes []string
	for _, rec := range r.Recommendations() {
		notes = append(notes, rec.String())
	}

	m := r.Metrics
	return journal.Run{
		RunID:        r.RunID,
		Created:      r.GeneratedAt,
		Strategy:     r.Config.Strategy,
		Pair:         r.Config.Pair(),
		Timeframe:    r.Config.Timeframe,
		Dataset:      r.Dataset,
		Config:       cfg,
		RiskPct:      r.Config.RiskPerTrade,
		StopPips:     r.Config.StopLossPips,
		TakePips:     r.Config.TakeProfitPips,
		Start:        r.Start,
		End:          r.End,
		Trades:       m.TotalTrades,
		Wins:         m.WinningTrades,
		Losses:       m.LosingTrades,
		StartBalance: r.Config.InitialCapital,
		EndBalance:   m.FinalEquity,
		NetPL:        m.FinalEquity - r.Config.InitialCapital,
		ReturnPct:    m.TotalReturn,
		WinRate:      m.WinRate,
		ProfitFactor: m.ProfitFactor,
		MaxDDPct:     m.MaxDrawdownPct,
		Sharpe:       m.SharpeRatio,
		Notes:        notes,
	}, nil
}
