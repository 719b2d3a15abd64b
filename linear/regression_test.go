package linear

import (
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * float64(j+1) * 0.5
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}
	return X, y
}

func TestLinearRegression_Basic(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.InDelta(t, 2.0, lr.GetWeights()[0], 1e-9)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 1e-9)

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, pred.At(0, 0), 1e-9)
	assert.InDelta(t, 13.0, pred.At(1, 0), 1e-9)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression(WithFitIntercept(false))
	require.NoError(t, lr.Fit(X, y))
	assert.InDelta(t, 2.0, lr.GetWeights()[0], 1e-9)
	assert.Equal(t, 0.0, lr.GetIntercept())
}

func TestLinearRegression_MultipleFeaturesParallel(t *testing.T) {
	X, y := createBenchmarkData(2500, 3)

	lr := NewLinearRegression(WithNJobs(4))
	require.NoError(t, lr.Fit(X, y))

	w := lr.GetWeights()
	assert.InDelta(t, 0.5, w[0], 0.01)
	assert.InDelta(t, 1.0, w[1], 0.01)
	assert.InDelta(t, 1.5, w[2], 0.01)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 0.01)
}

func TestLinearRegression_RidgeShrinks(t *testing.T) {
	X, y := createBenchmarkData(200, 2)

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))
	ridge := NewLinearRegression(WithAlpha(500))
	require.NoError(t, ridge.Fit(X, y))

	assert.Less(t, ridge.GetWeights()[1], ols.GetWeights()[1])
	assert.Contains(t, ridge.String(), "alpha=500")
}

func TestLinearRegression_Errors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, nil))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	// duplicated column makes XᵀX singular
	X := mat.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3})
	err = lr.Fit(X, mat.NewDense(3, 1, []float64{1, 2, 3}))
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	err = NewLinearRegression(WithAlpha(-1)).Fit(mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1}))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

// BenchmarkLinearRegressionFit はFitメソッドのベンチマークを実行する
func BenchmarkLinearRegressionFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Medium_2000x10", 2000, 10},
		{"Large_10000x20", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := NewLinearRegression().Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
