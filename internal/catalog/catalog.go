// Package catalog turns declarative learner and transformer descriptions, as
// found in the CLI's YAML config, into the specs an ensemble is built from.
package catalog

import (
	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/ensemble"
	"github.com/YuminosukeSato/blend/linear"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/preprocessing"
	"github.com/YuminosukeSato/blend/sklearn/dummy"
	"github.com/YuminosukeSato/blend/sklearn/neighbors"
	"gopkg.in/yaml.v3"
)

// Learner kinds.
const (
	KindLinear = "linear"
	KindKNN    = "knn"
	KindDummy  = "dummy"
)

// Transformer kinds.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

// LearnerConfig describes one learner. Fields irrelevant to Kind are ignored.
type LearnerConfig struct {
	Name string `mapstructure:"name" yaml:"name,omitempty"`
	Kind string `mapstructure:"kind" yaml:"kind"`

	// linear
	Alpha       float64 `mapstructure:"alpha" yaml:"alpha,omitempty"`
	NoIntercept bool    `mapstructure:"no_intercept" yaml:"no_intercept,omitempty"`

	// knn
	Neighbors int    `mapstructure:"neighbors" yaml:"neighbors,omitempty"`
	Weights   string `mapstructure:"weights" yaml:"weights,omitempty"`

	// dummy
	Strategy string  `mapstructure:"strategy" yaml:"strategy,omitempty"`
	Constant float64 `mapstructure:"constant" yaml:"constant,omitempty"`
}

// TransformerConfig describes one preprocessing step.
type TransformerConfig struct {
	Name  string    `mapstructure:"name" yaml:"name,omitempty"`
	Kind  string    `mapstructure:"kind" yaml:"kind"`
	Range []float64 `mapstructure:"range" yaml:"range,omitempty"`
}

// CaseConfig describes one preprocessing case.
type CaseConfig struct {
	Name         string              `mapstructure:"name" yaml:"name,omitempty"`
	Transformers []TransformerConfig `mapstructure:"transformers" yaml:"transformers,omitempty"`
	Learners     []LearnerConfig     `mapstructure:"learners" yaml:"learners"`
}

// Config is the ensemble layout section of the CLI config. Exactly one of
// Learners (flat layout) and Cases may be set.
type Config struct {
	Meta     LearnerConfig   `mapstructure:"meta" yaml:"meta"`
	Learners []LearnerConfig `mapstructure:"learners" yaml:"learners,omitempty"`
	Cases    []CaseConfig    `mapstructure:"cases" yaml:"cases,omitempty"`
}

// Spec returns the learner spec for c.
func (c LearnerConfig) Spec() (model.LearnerSpec, error) {
	switch c.Kind {
	case KindLinear:
		opts := []linear.Option{linear.WithAlpha(c.Alpha), linear.WithFitIntercept(!c.NoIntercept)}
		return model.LearnerFunc(func() model.Learner {
			return linear.NewLinearRegression(opts...)
		}), nil
	case KindKNN:
		var opts []neighbors.Option
		if c.Neighbors > 0 {
			opts = append(opts, neighbors.WithNeighbors(c.Neighbors))
		}
		if c.Weights != "" {
			opts = append(opts, neighbors.WithWeights(neighbors.Weights(c.Weights)))
		}
		return model.LearnerFunc(func() model.Learner {
			return neighbors.NewKNeighborsRegressor(opts...)
		}), nil
	case KindDummy:
		opts := []dummy.Option{dummy.WithConstant(c.Constant)}
		if c.Strategy != "" {
			opts = append(opts, dummy.WithStrategy(dummy.Strategy(c.Strategy)))
		}
		return model.LearnerFunc(func() model.Learner {
			return dummy.NewDummyRegressor(opts...)
		}), nil
	default:
		return nil, errors.NewValidationError("kind", "unknown learner kind", c.Kind)
	}
}

// Spec returns the transformer spec for c.
func (c TransformerConfig) Spec() (model.TransformerSpec, error) {
	switch c.Kind {
	case KindStandard:
		return model.TransformerFunc(func() model.Transformer {
			return preprocessing.NewStandardScalerDefault()
		}), nil
	case KindMinMax:
		rng := [2]float64{0, 1}
		if len(c.Range) != 0 {
			if len(c.Range) != 2 {
				return nil, errors.NewValidationError("range", "must have two values", c.Range)
			}
			rng = [2]float64{c.Range[0], c.Range[1]}
		}
		return model.TransformerFunc(func() model.Transformer {
			return preprocessing.NewMinMaxScaler(rng)
		}), nil
	default:
		return nil, errors.NewValidationError("kind", "unknown transformer kind", c.Kind)
	}
}

// MetaSpec returns the meta-model spec; an empty meta section means linear
// regression.
func (c Config) MetaSpec() (model.LearnerSpec, error) {
	meta := c.Meta
	if meta.Kind == "" {
		meta.Kind = KindLinear
	}
	return meta.Spec()
}

// Layout returns the ensemble layout.
func (c Config) Layout() (ensemble.Layout, error) {
	switch {
	case len(c.Learners) > 0 && len(c.Cases) > 0:
		return nil, errors.NewValidationError("layout", "set either learners or cases, not both", nil)
	case len(c.Learners) > 0:
		learners, err := buildLearners(c.Learners)
		if err != nil {
			return nil, err
		}
		return ensemble.FlatList{Learners: learners}, nil
	case len(c.Cases) > 0:
		cases := make([]ensemble.Case, len(c.Cases))
		for i, cc := range c.Cases {
			steps := make([]preprocessing.Step, len(cc.Transformers))
			for j, tc := range cc.Transformers {
				sp, err := tc.Spec()
				if err != nil {
					return nil, errors.Wrapf(err, "case %d transformer %d", i, j)
				}
				steps[j] = preprocessing.Step{Name: tc.Name, Spec: sp}
			}
			learners, err := buildLearners(cc.Learners)
			if err != nil {
				return nil, errors.Wrapf(err, "case %d", i)
			}
			cases[i] = ensemble.Case{Name: cc.Name, Transformers: steps, Learners: learners}
		}
		return ensemble.CasedMap{Cases: cases}, nil
	default:
		return nil, errors.NewValidationError("layout", "no learners configured", nil)
	}
}

func buildLearners(cfgs []LearnerConfig) ([]ensemble.Learner, error) {
	out := make([]ensemble.Learner, len(cfgs))
	for i, lc := range cfgs {
		sp, err := lc.Spec()
		if err != nil {
			return nil, errors.Wrapf(err, "learner %d", i)
		}
		out[i] = ensemble.Learner{Name: lc.Name, Spec: sp}
	}
	return out, nil
}

// Parse decodes a layout document.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse layout")
	}
	return c, nil
}
