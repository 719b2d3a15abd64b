package cmd

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/blend/ensemble"
	"github.com/YuminosukeSato/blend/internal/catalog"
	"github.com/YuminosukeSato/blend/internal/dataset"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/pkg/telemetry"
)

// runOptions is everything a command needs to fit an ensemble.
type runOptions struct {
	Train    string
	Target   string
	Settings ensemble.Config
	Layout   catalog.Config
	Registry prometheus.Registerer
}

func optionsFromViper() (runOptions, error) {
	opts := runOptions{
		Train:  viper.GetString("train"),
		Target: viper.GetString("target"),
		Settings: ensemble.Config{
			Folds:   viper.GetInt("folds"),
			Shuffle: viper.GetBool("shuffle"),
			Seed:    viper.GetUint64("seed"),
			Tabular: viper.GetBool("tabular"),
			Verbose: viper.GetInt("verbose"),
			Workers: viper.GetInt("workers"),
		},
	}
	if err := viper.Unmarshal(&opts.Layout); err != nil {
		return runOptions{}, errors.Wrap(err, "decode layout")
	}
	if opts.Train == "" {
		return runOptions{}, errors.NewValidationError("train", "a training CSV is required", "")
	}
	return opts, nil
}

// fitEnsemble loads the training data and fits the configured ensemble on it.
func fitEnsemble(ctx context.Context, opts runOptions) (*ensemble.Ensemble, *dataset.Dataset, error) {
	train, err := dataset.Load(opts.Train, opts.Target)
	if err != nil {
		return nil, nil, err
	}

	meta, err := opts.Layout.MetaSpec()
	if err != nil {
		return nil, nil, errors.Wrap(err, "meta")
	}
	layout, err := opts.Layout.Layout()
	if err != nil {
		return nil, nil, err
	}

	ensOpts := []ensemble.Option{ensemble.WithConfig(opts.Settings)}
	if opts.Registry != nil {
		collector, err := telemetry.NewCollector(opts.Registry)
		if err != nil {
			return nil, nil, err
		}
		ensOpts = append(ensOpts, ensemble.WithMetrics(collector))
	}

	e, err := ensemble.New(meta, layout, ensOpts...)
	if err != nil {
		return nil, nil, err
	}
	if err := e.FitContext(ctx, train.X, train.Y); err != nil {
		return nil, nil, err
	}
	return e, train, nil
}
