// Package dummy provides baseline regressors that ignore the features. They
// are useful as a floor for base learner columns and as a trivial meta-model.
package dummy

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Strategy selects the constant a DummyRegressor predicts.
type Strategy string

const (
	StrategyMean     Strategy = "mean"
	StrategyMedian   Strategy = "median"
	StrategyConstant Strategy = "constant"
)

// DummyRegressor predicts one constant learned from y.
type DummyRegressor struct {
	state *model.StateManager

	strategy Strategy
	constant float64

	// Constant_ is the fitted prediction.
	Constant_ float64
}

// Option configures a DummyRegressor.
type Option func(*DummyRegressor)

// WithStrategy sets the strategy (default mean).
func WithStrategy(s Strategy) Option {
	return func(d *DummyRegressor) {
		d.strategy = s
	}
}

// WithConstant sets the value predicted by StrategyConstant.
func WithConstant(c float64) Option {
	return func(d *DummyRegressor) {
		d.constant = c
	}
}

// NewDummyRegressor creates a DummyRegressor.
func NewDummyRegressor(opts ...Option) *DummyRegressor {
	d := &DummyRegressor{state: model.NewStateManager(), strategy: StrategyMean}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fit learns the constant from y; X only contributes its shape.
func (d *DummyRegressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 {
		return errors.NewModelError("DummyRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("DummyRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("DummyRegressor.Fit", "y must be a column vector")
	}

	target := mat.Col(nil, 0, y)
	switch d.strategy {
	case StrategyMean:
		d.Constant_ = stat.Mean(target, nil)
	case StrategyMedian:
		d.Constant_ = median(target)
	case StrategyConstant:
		d.Constant_ = d.constant
	default:
		return errors.NewValidationError("strategy", "unknown strategy", string(d.strategy))
	}

	d.state.SetFitted(c, r)
	return nil
}

// Predict returns Constant_ for every row of X.
func (d *DummyRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := d.state.RequireFitted("DummyRegressor", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := d.state.RequireFeatures("DummyRegressor.Predict", c); err != nil {
		return nil, err
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, d.Constant_)
	}
	return out, nil
}

func (d *DummyRegressor) String() string {
	return fmt.Sprintf("DummyRegressor(strategy=%s)", d.strategy)
}

// median sorts xs in place.
func median(xs []float64) float64 {
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[mid]
	}
	return (xs[mid-1] + xs[mid]) / 2
}
