package ensemble

import (
	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Entry is one base learner of the pool: a (case, learner) pair and the
// prediction matrix column it owns.
type Entry struct {
	Case   string
	Name   string
	Column string
	Index  int // position in the prediction matrix
	Spec   model.LearnerSpec

	caseIndex int
}

// Pool holds the resolved layout and produces independent learner instances.
type Pool struct {
	cases   []caseSpec
	entries []Entry
}

// NewPool resolves layout: names are derived and disambiguated, and every
// learner is assigned its column.
func NewPool(layout Layout) (*Pool, error) {
	cases, entries, err := normalize(layout)
	if err != nil {
		return nil, err
	}
	return &Pool{cases: cases, entries: entries}, nil
}

// Entries returns the entries in column order.
func (p *Pool) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// EntriesFor returns the entries of one case in column order.
func (p *Pool) EntriesFor(caseName string) []Entry {
	var out []Entry
	for _, e := range p.entries {
		if e.Case == caseName {
			out = append(out, e)
		}
	}
	return out
}

// Cases returns the resolved case names in order.
func (p *Pool) Cases() []string {
	out := make([]string, len(p.cases))
	for i, c := range p.cases {
		out[i] = c.Name
	}
	return out
}

// Columns returns the prediction matrix column names.
func (p *Pool) Columns() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Column
	}
	return out
}

// Width is the number of prediction matrix columns.
func (p *Pool) Width() int { return len(p.entries) }

// Instantiate returns a fresh, unfitted learner for e.
func (p *Pool) Instantiate(e Entry) (model.Learner, error) {
	return instantiate(e)
}

// Fit fits l on (X, y). Failures, panics included, are wrapped in a
// LearnerFitError that unwraps to the learner's own error.
func (p *Pool) Fit(e Entry, l model.Learner, X, y mat.Matrix) error {
	return fitLearner(e, l, X, y)
}

// Predict returns l's predictions for X as a single column of length n.
func (p *Pool) Predict(e Entry, l model.Learner, X mat.Matrix) ([]float64, error) {
	return predictColumn(e, l, X)
}

func instantiate(e Entry) (model.Learner, error) {
	l, err := errors.SafeCall(e.Column+".New", func() (model.Learner, error) {
		return e.Spec.New(), nil
	})
	if err != nil {
		return nil, errors.NewLearnerFitError(e.Case, e.Name, err)
	}
	if l == nil {
		return nil, errors.NewValidationError("learner", "spec returned nil instance", e.Column)
	}
	return l, nil
}

func fitLearner(e Entry, l model.Learner, X, y mat.Matrix) error {
	err := errors.SafeExecute(e.Column+".Fit", func() error {
		return l.Fit(X, y)
	})
	if err != nil {
		return errors.NewLearnerFitError(e.Case, e.Name, err)
	}
	return nil
}

func predictColumn(e Entry, l model.Learner, X mat.Matrix) ([]float64, error) {
	n, _ := X.Dims()
	out, err := errors.SafeCall(e.Column+".Predict", func() (mat.Matrix, error) {
		return l.Predict(X)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.NewValueError(e.Column+".Predict", "learner returned no predictions")
	}

	r, c := out.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError(e.Column+".Predict", 1, c, 1)
	}
	if r != n {
		return nil, errors.NewDimensionError(e.Column+".Predict", n, r, 0)
	}
	return mat.Col(nil, 0, out), nil
}
