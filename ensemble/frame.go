package ensemble

import (
	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Named is implemented by matrices that carry column names. Meta-models can
// type assert their input to Named when the ensemble runs with tabular output.
type Named interface {
	mat.Matrix
	ColumnNames() []string
}

// Frame is a prediction matrix with column names. It is a mat.Matrix with the
// same values as the underlying *mat.Dense.
type Frame struct {
	*mat.Dense
	columns []string
}

// NewFrame labels the columns of data.
func NewFrame(data *mat.Dense, columns []string) (*Frame, error) {
	if _, c := data.Dims(); c != len(columns) {
		return nil, errors.NewDimensionError("NewFrame", c, len(columns), 1)
	}
	return &Frame{Dense: data, columns: append([]string(nil), columns...)}, nil
}

// ColumnNames returns a copy of the column names.
func (f *Frame) ColumnNames() []string {
	return append([]string(nil), f.columns...)
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	for j, c := range f.columns {
		if c == name {
			return mat.Col(nil, j, f.Dense), true
		}
	}
	return nil, false
}
