package cli

import (
	"io"
	"math"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rustyeddy/fxjournal/backtest"
)

// PrintResult writes a human readable summary of res. Money is printed with
// thousands separators.
func PrintResult(w io.Writer, res *backtest.Result) {
	p := message.NewPrinter(language.English)
	m := res.Metrics
	cfg := res.Config

	p.Fprintln(w, "==================================================")
	p.Fprintln(w, " Backtest Result")
	p.Fprintln(w, "==================================================")

	p.Fprintf(w, "Run ID:        %s\n", res.RunID)
	p.Fprintf(w, "Generated:     %s\n", res.GeneratedAt.Format(time.RFC3339))
	p.Fprintf(w, "Strategy:      %s\n", cfg.Strategy)
	p.Fprintf(w, "Pair:          %s\n", cfg.Pair())
	p.Fprintf(w, "Timeframe:     %s\n", cfg.Timeframe)
	p.Fprintf(w, "Dataset:       %s\n", res.Dataset)

	p.Fprintln(w)
	p.Fprintln(w, "Period")
	p.Fprintln(w, "--------------------------------------------------")
	p.Fprintf(w, "Start:         %s\n", res.Start.Format(time.RFC3339))
	p.Fprintf(w, "End:           %s\n", res.End.Format(time.RFC3339))

	p.Fprintln(w)
	p.Fprintln(w, "Strategy Configuration")
	p.Fprintln(w, "--------------------------------------------------")
	p.Fprintf(w, "Risk per Trade: %.2f%%\n", cfg.RiskPerTrade)
	p.Fprintf(w, "Stop Loss:     %.1f pips\n", cfg.StopLossPips)
	p.Fprintf(w, "Take Profit:   %.1f pips\n", cfg.TakeProfitPips)
	if len(cfg.Params) > 0 {
		keys := make([]string, 0, len(cfg.Params))
		for k := range cfg.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.Fprintf(w, "  %-12s %v\n", k+":", cfg.Params[k])
		}
	}

	p.Fprintln(w)
	p.Fprintln(w, "Trade Statistics")
	p.Fprintln(w, "--------------------------------------------------")
	p.Fprintf(w, "Trades:        %d\n", m.TotalTrades)
	p.Fprintf(w, "Wins:          %d\n", m.WinningTrades)
	p.Fprintf(w, "Losses:        %d\n", m.LosingTrades)
	p.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate)
	if m.TotalTrades > 0 {
		p.Fprintf(w, "Avg Win:       %.2f\n", m.AvgWin)
		p.Fprintf(w, "Avg Loss:      %.2f\n", m.AvgLoss)
		p.Fprintf(w, "Largest Win:   %.2f\n", m.LargestWin)
		p.Fprintf(w, "Largest Loss:  %.2f\n", m.LargestLoss)
	}

	p.Fprintln(w)
	p.Fprintln(w, "Account Performance")
	p.Fprintln(w, "--------------------------------------------------")
	p.Fprintf(w, "Start Balance: %.2f\n", cfg.InitialCapital)
	p.Fprintf(w, "End Balance:   %.2f\n", m.FinalEquity)
	p.Fprintf(w, "Net P/L:       %.2f\n", m.FinalEquity-cfg.InitialCapital)
	p.Fprintf(w, "Return:        %.2f%%\n", m.TotalReturn)

	switch {
	case math.IsInf(m.ProfitFactor, 1):
		p.Fprintln(w, "Profit Factor: inf")
	case m.ProfitFactor > 0:
		p.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
	}
	if m.MaxDrawdownPct > 0 {
		p.Fprintf(w, "Max Drawdown:  %.2f%%\n", m.MaxDrawdownPct)
	}
	p.Fprintf(w, "Sharpe Ratio:  %.2f\n", m.SharpeRatio)

	if len(res.Monthly) > 0 {
		months := make([]string, 0, len(res.Monthly))
		for k := range res.Monthly {
			months = append(months, k)
		}
		sort.Strings(months)

		p.Fprintln(w)
		p.Fprintln(w, "Monthly")
		p.Fprintln(w, "--------------------------------------------------")
		for _, k := range months {
			b := res.Monthly[k]
			p.Fprintf(w, "%-8s %4d trades %4d wins %12.2f\n", k, b.Trades, b.Winning, b.Profit)
		}
	}

	if recs := res.Recommendations(); len(recs) > 0 {
		p.Fprintln(w)
		p.Fprintln(w, "Recommendations")
		p.Fprintln(w, "--------------------------------------------------")
		for _, r := range recs {
			p.Fprintf(w, "[%s] %s\n", r.Priority, r)
		}
	}

	p.Fprintln(w, "==================================================")
}
