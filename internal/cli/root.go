package cli

import (
	"fmt"
	"io"
	"os"

	horizonapp "github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/cli/formatter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds the use cases and process settings the CLI commands run against.
type App struct {
	Analyze      horizonapp.AnalyzeUseCase
	CriticalPath horizonapp.CriticalPathUseCase
	Resources    horizonapp.ResourceUseCase
	History      horizonapp.HistoryUseCase

	// Metrics is dumped by "analyze --metrics". Nil disables the dump.
	Metrics prometheus.Gatherer

	// DefaultFormat is used when --format is not given. Empty means text.
	DefaultFormat string
}

// NewRootCmd creates the top-level "horizon" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "horizon",
		Short:         "Project completion forecasting and resource allocation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("format", "f", "", "Output format: text, json or yaml")

	root.AddCommand(
		newAnalyzeCmd(app),
		newCriticalPathCmd(app),
		newResourceCmd(app),
		newHistoryCmd(app),
	)

	return root
}

// outputFormat resolves --format against the App default.
func outputFormat(cmd *cobra.Command, app *App) (string, error) {
	f, _ := cmd.Flags().GetString("format")
	if f == "" {
		f = app.DefaultFormat
	}
	if f == "" {
		f = formatter.FormatText
	}
	if !formatter.ValidFormat(f) {
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", f)
	}
	return f, nil
}

// render writes v in the selected format; text uses the given renderer.
func render(cmd *cobra.Command, app *App, v any, text func() string) error {
	f, err := outputFormat(cmd, app)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if f == formatter.FormatText {
		_, err := fmt.Fprint(out, text())
		return err
	}
	return formatter.Encode(out, f, v)
}

// openInput returns the named file, or the command's stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}
