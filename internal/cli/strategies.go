package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxjournal/backtest"
	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/strategies"
)

func newStrategiesCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List built-in and saved strategies",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in strategies and their default parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDEFAULTS")
			for _, name := range strategies.Names() {
				d, err := strategies.Defaults(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, formatParams(d))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "saved",
		Short: "List strategies saved with backtest --save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			saved, err := journal.ListStrategies(cmd.Context(), db)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTRATEGY\tPAIR\tTRADES\tWIN%\tPROFIT\tSAVED")
			for _, s := range saved {
				var cfg backtest.Config
				if err := s.DecodeConfig(&cfg); err != nil {
					rc.log.Warn("saved strategy has no usable config", zap.String("id", s.ID), zap.Error(err))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.1f\t%.2f\t%s\n",
					s.ID, s.Name, cfg.Strategy, cfg.Pair(), s.Summary.TotalTrades,
					s.Summary.WinRate, s.Summary.TotalProfit, s.SavedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rc.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			return journal.DeleteStrategy(cmd.Context(), db, args[0])
		},
	})

	return cmd
}

func formatParams(p strategies.Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, p[k]))
	}
	return strings.Join(parts, " ")
}
