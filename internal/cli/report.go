package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rustyeddy/fxjournal/analysis"
)

func newReportCmd(rc *rootConfig) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyse every journaled trade closed in a time range",
		Long: `Report loads the trades of all recorded runs whose exit time falls in
[--from, --to) and prints summary statistics, per-pair and monthly
breakdowns and recommendations.

Example:
  fxjournal report --from 2024-01-01T00:00:00Z --to 2024-07-01T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseTimeFlag("from", fromStr, time.Unix(0, 0).UTC())
			if err != nil {
				return err
			}
			to, err := parseTimeFlag("to", toStr, time.Now().UTC().Add(time.Second))
			if err != nil {
				return err
			}
			if !from.Before(to) {
				return fmt.Errorf("--from must be before --to")
			}

			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			trades, err := db.ListTradesClosedBetween(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			PrintReport(cmd.OutOrStdout(), analysis.BuildReport(trades, time.Now().UTC()))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "RFC3339 start time (default: all history)")
	cmd.Flags().StringVar(&toStr, "to", "", "RFC3339 end time, exclusive (default: now)")
	return cmd
}

func parseTimeFlag(name, s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad --%s: %w", name, err)
		}
	}
	return t.UTC(), nil
}

// PrintReport writes r in the same layout as PrintResult.
func PrintReport(w io.Writer, r analysis.Report) {
	p := message.NewPrinter(language.English)
	s := r.Summary

	p.Fprintln(w, "==================================================")
	p.Fprintln(w, " Journal Report")
	p.Fprintln(w, "==================================================")
	p.Fprintf(w, "Generated:     %s\n", r.GeneratedAt.Format(time.RFC3339))
	p.Fprintf(w, "Trades:        %d\n", s.TotalTrades)
	p.Fprintf(w, "Wins:          %d\n", s.WinningTrades)
	p.Fprintf(w, "Losses:        %d\n", s.LosingTrades)
	p.Fprintf(w, "Break Even:    %d\n", s.BreakEvenTrades)
	p.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate)
	p.Fprintf(w, "Total P/L:     %.2f\n", s.TotalProfit)
	p.Fprintf(w, "Expectancy:    %.2f\n", s.Expectancy)
	switch {
	case math.IsInf(s.ProfitFactor, 1):
		p.Fprintln(w, "Profit Factor: inf")
	case s.ProfitFactor > 0:
		p.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}

	if len(r.ByPair) > 0 {
		p.Fprintln(w)
		p.Fprintln(w, "By Pair")
		p.Fprintln(w, "--------------------------------------------------")
		for _, ps := range r.ByPair {
			p.Fprintf(w, "%-8s %4d trades %6.1f%% win %12.2f\n", ps.Pair, ps.Trades, ps.WinRate, ps.Profit)
		}
	}

	if len(r.ByMonth) > 0 {
		months := make([]string, 0, len(r.ByMonth))
		for k := range r.ByMonth {
			months = append(months, k)
		}
		sort.Strings(months)

		p.Fprintln(w)
		p.Fprintln(w, "Monthly")
		p.Fprintln(w, "--------------------------------------------------")
		for _, k := range months {
			b := r.ByMonth[k]
			p.Fprintf(w, "%-8s %4d trades %4d wins %12.2f\n", k, b.Trades, b.Winning, b.Profit)
		}
	}

	if len(r.Recommendations) > 0 {
		p.Fprintln(w)
		p.Fprintln(w, "Recommendations")
		p.Fprintln(w, "--------------------------------------------------")
		for _, rec := range r.Recommendations {
			p.Fprintf(w, "[%s] %s\n", rec.Priority, rec)
		}
	}
}
