package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	horizonapp "github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/cli/formatter"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var input string
	var reallocate, dumpMetrics bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse project progress and forecast completion",
		Long: `Reads an analysis request as JSON (from --input or stdin) and prints the
warning status, completion estimate, risks and resource recommendations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer in.Close()

			req, err := horizonapp.DecodeAnalysisRequest(in)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("reallocate") {
				req.Reallocate = reallocate
			}

			resp, err := app.Analyze.Analyze(context.Background(), req)
			if err != nil {
				return err
			}

			if err := render(cmd, app, resp, func() string {
				return formatter.FormatAnalysis(resp)
			}); err != nil {
				return err
			}

			if dumpMetrics && app.Metrics != nil {
				return writeMetrics(cmd.ErrOrStderr(), app.Metrics)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Request file (default stdin)")
	cmd.Flags().BoolVar(&reallocate, "reallocate", false, "Assign a senior developer when the status is red")
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Write pipeline metrics to stderr after the analysis")

	return cmd
}

func newCriticalPathCmd(app *App) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "critical-path",
		Short: "Show the longest dependency chain",
		Long: `Reads a progress snapshot as JSON from --input. Without --input the
configured step graph is used with standard durations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var progress domain.ProgressSnapshot
			if input != "" {
				in, err := openInput(cmd, input)
				if err != nil {
					return err
				}
				defer in.Close()

				dec := json.NewDecoder(in)
				dec.DisallowUnknownFields()
				if err := dec.Decode(&progress); err != nil {
					return fmt.Errorf("decoding progress: %w", err)
				}
			}

			cp, err := app.CriticalPath.CriticalPath(context.Background(), progress)
			if err != nil {
				return err
			}
			return render(cmd, app, cp, func() string {
				return formatter.FormatCriticalPath(cp)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Progress snapshot file (\"-\" for stdin)")

	return cmd
}

// writeMetrics dumps every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
