package dummy

import (
	"testing"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDummyRegressor_Strategies(t *testing.T) {
	X := mat.NewDense(5, 2, nil)
	y := mat.NewVecDense(5, []float64{1, 2, 3, 4, 100})

	tests := []struct {
		name string
		opts []Option
		want float64
	}{
		{"mean", nil, 22},
		{"median", []Option{WithStrategy(StrategyMedian)}, 3},
		{"constant", []Option{WithStrategy(StrategyConstant), WithConstant(-7)}, -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDummyRegressor(tt.opts...)
			require.NoError(t, d.Fit(X, y))

			pred, err := d.Predict(mat.NewDense(3, 2, nil))
			require.NoError(t, err)
			r, c := pred.Dims()
			assert.Equal(t, 3, r)
			assert.Equal(t, 1, c)
			for i := 0; i < r; i++ {
				assert.InDelta(t, tt.want, pred.At(i, 0), 1e-12)
			}
		})
	}
}

func TestDummyRegressor_DoesNotMutateTarget(t *testing.T) {
	y := mat.NewVecDense(3, []float64{3, 1, 2})
	d := NewDummyRegressor(WithStrategy(StrategyMedian))
	require.NoError(t, d.Fit(mat.NewDense(3, 1, nil), y))
	assert.Equal(t, []float64{3, 1, 2}, y.RawVector().Data)
	assert.Equal(t, 2.0, d.Constant_)

	even := NewDummyRegressor(WithStrategy(StrategyMedian))
	require.NoError(t, even.Fit(mat.NewDense(4, 1, nil), mat.NewVecDense(4, []float64{4, 1, 3, 2})))
	assert.Equal(t, 2.5, even.Constant_)
}

func TestDummyRegressor_Errors(t *testing.T) {
	d := NewDummyRegressor()
	_, err := d.Predict(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = d.Fit(mat.NewDense(2, 1, nil), mat.NewVecDense(3, nil))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	err = NewDummyRegressor(WithStrategy("mode")).Fit(mat.NewDense(1, 1, nil), mat.NewVecDense(1, nil))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	require.NoError(t, d.Fit(mat.NewDense(2, 2, nil), mat.NewVecDense(2, nil)))
	_, err = d.Predict(mat.NewDense(1, 3, nil))
	assert.True(t, errors.As(err, &dim))
}
