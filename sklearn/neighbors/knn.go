// Package neighbors provides a k-nearest-neighbours regressor, a
// non-parametric base learner that complements linear models in a blend.
package neighbors

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/core/parallel"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Weights selects how neighbours contribute to a prediction.
type Weights string

const (
	// Uniform averages the neighbours' targets.
	Uniform Weights = "uniform"
	// Distance weights each neighbour by the inverse of its distance. An exact
	// match short-circuits to the mean of the exact matches.
	Distance Weights = "distance"
)

// KNeighborsRegressor predicts the (weighted) mean target of the k closest
// training rows under Euclidean distance.
type KNeighborsRegressor struct {
	state *model.StateManager

	nNeighbors int
	weights    Weights
	nJobs      int

	rows [][]float64
	y    []float64
}

// Option configures a KNeighborsRegressor.
type Option func(*KNeighborsRegressor)

// WithNeighbors sets k (default 5).
func WithNeighbors(k int) Option {
	return func(m *KNeighborsRegressor) {
		m.nNeighbors = k
	}
}

// WithWeights sets the weighting scheme (default Uniform).
func WithWeights(w Weights) Option {
	return func(m *KNeighborsRegressor) {
		m.weights = w
	}
}

// WithNJobs bounds the goroutines used by Predict; 0 uses all CPUs.
func WithNJobs(n int) Option {
	return func(m *KNeighborsRegressor) {
		m.nJobs = n
	}
}

// NewKNeighborsRegressor creates a regressor with k=5 and uniform weights.
func NewKNeighborsRegressor(opts ...Option) *KNeighborsRegressor {
	m := &KNeighborsRegressor{
		state:      model.NewStateManager(),
		nNeighbors: 5,
		weights:    Uniform,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit stores a copy of the training data.
func (m *KNeighborsRegressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("KNeighborsRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("KNeighborsRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("KNeighborsRegressor.Fit", "y must be a column vector")
	}
	if m.nNeighbors < 1 {
		return errors.NewValidationError("n_neighbors", "must be positive", m.nNeighbors)
	}
	if m.nNeighbors > r {
		return errors.NewValidationError("n_neighbors", fmt.Sprintf("exceeds the %d training samples", r), m.nNeighbors)
	}
	if m.weights != Uniform && m.weights != Distance {
		return errors.NewValidationError("weights", "unknown weighting", string(m.weights))
	}

	m.rows = make([][]float64, r)
	for i := range m.rows {
		m.rows[i] = mat.Row(nil, i, X)
	}
	m.y = mat.Col(nil, 0, y)
	m.state.SetFitted(c, r)
	return nil
}

// Predict returns an n×1 matrix of predictions. Rows are processed in
// parallel.
func (m *KNeighborsRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("KNeighborsRegressor", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := m.state.RequireFeatures("KNeighborsRegressor.Predict", c); err != nil {
		return nil, err
	}

	out := make([]float64, r)
	parallel.ParallelizeN(r, m.nJobs, func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			out[i] = m.predictRow(row)
		}
	})
	return mat.NewDense(r, 1, out), nil
}

type neighbor struct {
	dist  float64
	value float64
}

func (m *KNeighborsRegressor) predictRow(x []float64) float64 {
	nbrs := make([]neighbor, len(m.rows))
	for j, xj := range m.rows {
		nbrs[j] = neighbor{dist: floats.Distance(x, xj, 2), value: m.y[j]}
	}
	// stable so ties resolve to the earlier training row
	sort.SliceStable(nbrs, func(a, b int) bool { return nbrs[a].dist < nbrs[b].dist })
	nbrs = nbrs[:m.nNeighbors]

	if m.weights == Distance {
		var exact, exactSum float64
		for _, n := range nbrs {
			if n.dist == 0 {
				exact++
				exactSum += n.value
			}
		}
		if exact > 0 {
			return exactSum / exact
		}

		var num, den float64
		for _, n := range nbrs {
			w := 1 / n.dist
			num += w * n.value
			den += w
		}
		return num / den
	}

	var sum float64
	for _, n := range nbrs {
		sum += n.value
	}
	return sum / float64(len(nbrs))
}

func (m *KNeighborsRegressor) String() string {
	return fmt.Sprintf("KNeighborsRegressor(n_neighbors=%d, weights=%s)", m.nNeighbors, m.weights)
}
