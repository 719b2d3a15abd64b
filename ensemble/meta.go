package ensemble

import (
	"slices"

	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// metaLearnerName labels meta-model failures.
const metaLearnerName = "meta"

// MetaModel is the second-level learner trained on the prediction matrix. It
// remembers the fit-time column names and refuses prediction matrices whose
// columns differ.
type MetaModel struct {
	spec    model.LearnerSpec
	learner model.Learner
	columns []string
}

// NewMetaModel creates an unfitted meta-model.
func NewMetaModel(spec model.LearnerSpec) *MetaModel {
	return &MetaModel{spec: spec}
}

// Fit trains a fresh learner on (M, y). columns names M's columns. On failure
// the meta-model is left unfitted.
func (m *MetaModel) Fit(M, y mat.Matrix, columns []string) error {
	m.learner, m.columns = nil, nil

	if _, c := M.Dims(); c != len(columns) {
		return errors.NewDimensionError("MetaModel.Fit", len(columns), c, 1)
	}
	if m.spec == nil {
		return errors.NewValidationError("meta", "spec is nil", nil)
	}
	entry := Entry{Name: metaLearnerName, Column: metaLearnerName, Spec: m.spec}
	l, err := instantiate(entry)
	if err != nil {
		return err
	}
	if err := fitLearner(entry, l, M, y); err != nil {
		return err
	}

	m.learner = l
	m.columns = append([]string(nil), columns...)
	return nil
}

// Predict returns the meta-model's n×1 prediction for M.
func (m *MetaModel) Predict(M mat.Matrix, columns []string) (mat.Matrix, error) {
	if m.learner == nil {
		return nil, errors.NewNotFittedError("MetaModel", "Predict")
	}
	if !slices.Equal(columns, m.columns) {
		return nil, errors.NewColumnOrderError(m.columns, columns)
	}
	if _, c := M.Dims(); c != len(columns) {
		return nil, errors.NewDimensionError("MetaModel.Predict", len(columns), c, 1)
	}

	n, _ := M.Dims()
	values, err := predictColumn(Entry{Column: metaLearnerName}, m.learner, M)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(n, 1, values), nil
}

// Columns returns the fit-time column names.
func (m *MetaModel) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Learner returns the fitted learner, or nil before Fit.
func (m *MetaModel) Learner() model.Learner { return m.learner }

// IsFitted reports whether Fit succeeded.
func (m *MetaModel) IsFitted() bool { return m.learner != nil }
