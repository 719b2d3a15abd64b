package cmd

import (
	"context"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/blend/internal/dataset"
	"github.com/YuminosukeSato/blend/pkg/errors"
)

var (
	testFile string
	outFile  string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fit on --train and predict --test",
	Long: `Fit the configured ensemble on --train, then write one prediction per row
of --test as a single-column CSV. A target column in --test is ignored.`,
	Example: `  blend predict --config blend.yaml --train train.csv --test test.csv --out preds.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFromViper()
		if err != nil {
			return err
		}
		if outFile == "" || outFile == "-" {
			return runPredict(cmd.Context(), opts, testFile, cmd.OutOrStdout())
		}
		return writeFile(outFile, func(w io.Writer) error {
			return runPredict(cmd.Context(), opts, testFile, w)
		})
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&testFile, "test", "", "CSV to predict (same feature columns as --train)")
	predictCmd.Flags().StringVarP(&outFile, "out", "o", "-", "prediction CSV, - for stdout")
	_ = predictCmd.MarkFlagRequired("test")
}

func runPredict(ctx context.Context, opts runOptions, test string, w io.Writer) error {
	e, train, err := fitEnsemble(ctx, opts)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(test, opts.Target)
	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		ds, err = dataset.Load(test, "")
	}
	if err != nil {
		return err
	}
	if !slices.Equal(ds.Features, train.Features) {
		return errors.NewColumnOrderError(train.Features, ds.Features)
	}

	pred, err := e.PredictContext(ctx, ds.X)
	if err != nil {
		return err
	}
	return dataset.Write(w, opts.Target, pred)
}
