package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/blend/ensemble"
	"github.com/YuminosukeSato/blend/linear"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/preprocessing"
	"github.com/YuminosukeSato/blend/sklearn/dummy"
	"github.com/YuminosukeSato/blend/sklearn/neighbors"
)

const casedDoc = `
meta:
  kind: linear
  alpha: 0.5
cases:
  - name: raw
    learners:
      - kind: knn
        neighbors: 3
        weights: distance
      - kind: dummy
        strategy: median
  - name: scaled
    transformers:
      - kind: standard
      - kind: minmax
        range: [-1, 1]
    learners:
      - name: ols
        kind: linear
`

func TestParse_CasedLayout(t *testing.T) {
	cfg, err := Parse([]byte(casedDoc))
	require.NoError(t, err)
	require.Len(t, cfg.Cases, 2)
	assert.Equal(t, 0.5, cfg.Meta.Alpha)
	assert.Equal(t, 3, cfg.Cases[0].Learners[0].Neighbors)
	assert.Equal(t, []float64{-1, 1}, cfg.Cases[1].Transformers[1].Range)

	layout, err := cfg.Layout()
	require.NoError(t, err)
	cm, ok := layout.(ensemble.CasedMap)
	require.True(t, ok)
	require.Len(t, cm.Cases, 2)
	assert.Equal(t, "raw", cm.Cases[0].Name)
	assert.IsType(t, &neighbors.KNeighborsRegressor{}, cm.Cases[0].Learners[0].Spec.New())
	assert.IsType(t, &dummy.DummyRegressor{}, cm.Cases[0].Learners[1].Spec.New())
	require.Len(t, cm.Cases[1].Transformers, 2)
	assert.IsType(t, &preprocessing.StandardScaler{}, cm.Cases[1].Transformers[0].Spec.New())
	mm, ok := cm.Cases[1].Transformers[1].Spec.New().(*preprocessing.MinMaxScaler)
	require.True(t, ok)
	assert.Equal(t, [2]float64{-1, 1}, mm.FeatureRange)

	pool, err := ensemble.NewPool(layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"raw/kneighborsregressor", "raw/dummyregressor", "scaled/ols"}, pool.Columns())
}

func TestParse_FlatLayout(t *testing.T) {
	cfg, err := Parse([]byte("learners:\n  - kind: linear\n  - kind: linear\n"))
	require.NoError(t, err)
	layout, err := cfg.Layout()
	require.NoError(t, err)
	pool, err := ensemble.NewPool(layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"linearregression-1", "linearregression-2"}, pool.Columns())

	meta, err := cfg.MetaSpec()
	require.NoError(t, err)
	assert.IsType(t, &linear.LinearRegression{}, meta.New())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("cases: [\n"))
	assert.Error(t, err)
}

func TestLayout_Errors(t *testing.T) {
	var ve *errors.ValidationError

	_, err := Config{}.Layout()
	assert.True(t, errors.As(err, &ve))

	both := Config{
		Learners: []LearnerConfig{{Kind: KindLinear}},
		Cases:    []CaseConfig{{Learners: []LearnerConfig{{Kind: KindLinear}}}},
	}
	_, err = both.Layout()
	assert.True(t, errors.As(err, &ve))

	unknown := Config{Cases: []CaseConfig{{Learners: []LearnerConfig{{Kind: "forest"}}}}}
	_, err = unknown.Layout()
	require.Error(t, err)
	assert.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "case 0")

	badRange := Config{Cases: []CaseConfig{{
		Transformers: []TransformerConfig{{Kind: KindMinMax, Range: []float64{1}}},
		Learners:     []LearnerConfig{{Kind: KindLinear}},
	}}}
	_, err = badRange.Layout()
	assert.True(t, errors.As(err, &ve))

	_, err = TransformerConfig{Kind: "pca"}.Spec()
	assert.True(t, errors.As(err, &ve))
}

func TestLearnerConfig_SpecProducesFreshInstances(t *testing.T) {
	spec, err := LearnerConfig{Kind: KindDummy, Strategy: "constant", Constant: 7}.Spec()
	require.NoError(t, err)
	a, b := spec.New(), spec.New()
	assert.NotSame(t, a, b)

	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{1, 1, 1})
	require.NoError(t, a.Fit(X, y))
	pred, err := a.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 7.0, pred.At(2, 0))
	_, err = b.Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestLearnerConfig_NoIntercept(t *testing.T) {
	spec, err := LearnerConfig{Kind: KindLinear, NoIntercept: true}.Spec()
	require.NoError(t, err)
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 6, 9, 12})
	l := spec.New()
	require.NoError(t, l.Fit(X, y))
	pred, err := l.Predict(mat.NewDense(1, 1, []float64{10}))
	require.NoError(t, err)
	assert.InDelta(t, 30, pred.At(0, 0), 1e-9)
}
