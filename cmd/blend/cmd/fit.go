package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/blend/internal/report"
	"github.com/YuminosukeSato/blend/pkg/errors"
)

// fitOutputs are the optional artifacts of the fit command.
type fitOutputs struct {
	Report     string
	Plot       string
	MetricsOut string
}

var fitOut fitOutputs

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit an ensemble and report its out-of-fold scores",
	Long: `Fit the configured ensemble on --train and print the out-of-fold MSE and
R² of every prediction column.`,
	Example: `  blend fit --config blend.yaml --train train.csv --target price
  blend fit --config blend.yaml --train train.csv --report fit.yaml --plot oof.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFromViper()
		if err != nil {
			return err
		}
		return runFit(cmd.Context(), opts, fitOut, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().StringVar(&fitOut.Report, "report", "", "write a YAML fit report to this file")
	fitCmd.Flags().StringVar(&fitOut.Plot, "plot", "", "save an out-of-fold scatter plot (png, svg, pdf)")
	fitCmd.Flags().StringVar(&fitOut.MetricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file")
}

func runFit(ctx context.Context, opts runOptions, out fitOutputs, w io.Writer) error {
	var reg *prometheus.Registry
	if out.MetricsOut != "" {
		reg = prometheus.NewRegistry()
		opts.Registry = reg
	}

	e, train, err := fitEnsemble(ctx, opts)
	if err != nil {
		return err
	}
	summary, err := report.Build(e, train.Y)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "run %s: %d samples, %d folds, meta %s\n",
		summary.RunID, summary.Samples, len(summary.Folds), summary.Params.Meta)
	if err := summary.WriteTable(w); err != nil {
		return err
	}

	if out.Report != "" {
		if err := writeFile(out.Report, summary.WriteYAML); err != nil {
			return err
		}
	}
	if out.Plot != "" {
		oof, err := e.OutOfFold()
		if err != nil {
			return err
		}
		if err := report.PlotOutOfFold(oof, train.Y, e.Columns(), out.Plot); err != nil {
			return err
		}
	}
	if reg != nil {
		if err := prometheus.WriteToTextfile(out.MetricsOut, reg); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
