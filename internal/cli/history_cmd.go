package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/horizon/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record step durations and inspect past analyses",
	}

	cmd.AddCommand(
		newHistoryRecordCmd(app),
		newHistoryStatsCmd(app),
		newHistoryRunsCmd(app),
	)

	return cmd
}

func newHistoryRecordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "record <step> <days>",
		Short: "Record how long a finished step took",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[1], err)
			}
			if err := app.History.Record(context.Background(), args[0], days); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n",
				formatter.FormatDays(days), formatter.Bold(args[0]))
			return err
		},
	}
}

func newHistoryStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-step duration statistics and trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.History.Stats(context.Background())
			if err != nil {
				return err
			}
			return render(cmd, app, stats, func() string {
				return formatter.FormatHistoryStats(stats)
			})
		},
	}
}

func newHistoryRunsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.History.Runs(context.Background(), limit)
			if err != nil {
				return err
			}
			return render(cmd, app, runs, func() string {
				return formatter.FormatRuns(runs, time.Now())
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}
