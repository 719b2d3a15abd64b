package ensemble

import (
	"sync/atomic"

	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/sklearn/model_selection"
	"gonum.org/v1/gonum/mat"
)

// meanLearner predicts the mean of its training target.
type meanLearner struct {
	mean   float64
	fitted bool
}

func (m *meanLearner) Fit(X, y mat.Matrix) error {
	n, _ := y.Dims()
	var sum float64
	for i := 0; i < n; i++ {
		sum += y.At(i, 0)
	}
	m.mean = sum / float64(n)
	m.fitted = true
	return nil
}

func (m *meanLearner) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.fitted {
		return nil, errors.NewNotFittedError("meanLearner", "Predict")
	}
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, m.mean)
	}
	return out, nil
}

// constLearner always predicts value.
type constLearner struct{ value float64 }

func (c *constLearner) Fit(X, y mat.Matrix) error { return nil }

func (c *constLearner) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, c.value)
	}
	return out, nil
}

// memorizer predicts 1 for rows whose id (column 0) it was trained on.
type memorizer struct{ seen map[float64]bool }

func (m *memorizer) Fit(X, y mat.Matrix) error {
	m.seen = make(map[float64]bool)
	n, _ := X.Dims()
	for i := 0; i < n; i++ {
		m.seen[X.At(i, 0)] = true
	}
	return nil
}

func (m *memorizer) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if m.seen[X.At(i, 0)] {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// identityMeta passes the first column through.
type identityMeta struct {
	fitted  bool
	columns []string
}

func (m *identityMeta) Fit(X, y mat.Matrix) error {
	if named, ok := X.(Named); ok {
		m.columns = named.ColumnNames()
	}
	m.fitted = true
	return nil
}

func (m *identityMeta) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	return mat.NewDense(n, 1, mat.Col(nil, 0, X)), nil
}

// failingLearner returns err from Fit.
type failingLearner struct{ err error }

func (f *failingLearner) Fit(X, y mat.Matrix) error { return f.err }

func (f *failingLearner) Predict(X mat.Matrix) (mat.Matrix, error) { return nil, f.err }

// wideLearner returns two columns.
type wideLearner struct{}

func (wideLearner) Fit(X, y mat.Matrix) error { return nil }

func (wideLearner) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	return mat.NewDense(n, 2, nil), nil
}

// needsRow fails to fit unless row id (column 0) value is in its input.
type needsRow struct {
	id  float64
	err error
}

func (t *needsRow) Fit(X mat.Matrix) error {
	n, _ := X.Dims()
	for i := 0; i < n; i++ {
		if X.At(i, 0) == t.id {
			return nil
		}
	}
	return t.err
}

func (t *needsRow) Transform(X mat.Matrix) (mat.Matrix, error) { return X, nil }

func (t *needsRow) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return X, nil
}

func spec(f func() model.Learner) model.LearnerSpec { return model.LearnerFunc(f) }

func meanSpec() model.LearnerSpec {
	return spec(func() model.Learner { return &meanLearner{} })
}

func constSpec(v float64) model.LearnerSpec {
	return spec(func() model.Learner { return &constLearner{value: v} })
}

func identitySpec() model.LearnerSpec {
	return spec(func() model.Learner { return &identityMeta{} })
}

// countingSpec counts instantiations.
func countingSpec(counter *atomic.Int64, inner model.LearnerSpec) model.LearnerSpec {
	return spec(func() model.Learner {
		counter.Add(1)
		return inner.New()
	})
}

// rowIDs returns an n×1 matrix whose row i holds i.
func rowIDs(n int) *mat.Dense {
	X := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
	}
	return X
}

// fixedSplitter returns folds verbatim.
type fixedSplitter struct{ folds [][2][]int }

func (s fixedSplitter) Split(int) ([]model_selection.Fold, error) {
	out := make([]model_selection.Fold, len(s.folds))
	for i, f := range s.folds {
		out[i] = model_selection.Fold{TrainIndices: f[0], TestIndices: f[1]}
	}
	return out, nil
}

func (s fixedSplitter) GetNSplits() int { return len(s.folds) }
