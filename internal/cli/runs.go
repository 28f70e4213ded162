package cli

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxjournal/analysis"
	"github.com/rustyeddy/fxjournal/journal"
)

func newRunsCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect backtest runs recorded in the journal database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tSTRATEGY\tPAIR\tTF\tTRADES\tNET P/L\tRETURN%\tPF")
			for _, r := range runs {
				pf := fmt.Sprintf("%.2f", r.ProfitFactor)
				if math.IsInf(r.ProfitFactor, 1) {
					pf = "inf"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
					r.RunID, r.Created.Format(time.RFC3339), r.Strategy, r.Pair, r.Timeframe,
					r.Trades, r.NetPL, r.ReturnPct, pf)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the Org report of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			org, err := db.ExportRunOrg(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), org)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <run-id> <file.csv>",
		Short: "Export the trades of a run as CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if _, err := db.GetRun(ctx, args[0]); err != nil {
				return err
			}
			trades, err := db.ListTradesByRun(ctx, args[0])
			if err != nil {
				return err
			}
			if err := exportTrades(args[1], trades); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d trades to %s\n", len(trades), args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "equity <run-id>",
		Short: "Summarise the equity curve of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			snaps, err := db.ListEquityByRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				return fmt.Errorf("%w: equity of run %q", journal.ErrNotFound, args[0])
			}

			curve := make([]float64, len(snaps))
			for i, s := range snaps {
				curve[i] = s.Equity
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Points:        %d\n", len(curve))
			fmt.Fprintf(out, "From:          %s\n", snaps[0].Time.Format(time.RFC3339))
			fmt.Fprintf(out, "To:            %s\n", snaps[len(snaps)-1].Time.Format(time.RFC3339))
			fmt.Fprintf(out, "Final Equity:  %.2f\n", curve[len(curve)-1])
			fmt.Fprintf(out, "Return:        %.2f%%\n", analysis.TotalReturn(curve[0], curve))
			fmt.Fprintf(out, "Max Drawdown:  %.2f%%\n", analysis.MaxDrawdown(curve)*100)
			fmt.Fprintf(out, "Sharpe Ratio:  %.2f\n", analysis.Sharpe(curve))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "trade <trade-id>",
		Short: "Print one journaled trade as an Org entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tr, err := db.GetTrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), journal.FormatTradeOrg(tr, 1))
			return err
		},
	})

	return cmd
}
