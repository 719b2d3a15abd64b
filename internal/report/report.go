// Package report renders what a fitted ensemble learned: per-column
// out-of-fold scores as a table or a YAML document, and a scatter plot of the
// out-of-fold predictions against the target.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/blend/ensemble"
	"github.com/YuminosukeSato/blend/metrics"
	"github.com/YuminosukeSato/blend/pkg/errors"
)

// FoldSummary is the size of one fold.
type FoldSummary struct {
	Train   int `yaml:"train"`
	Holdout int `yaml:"holdout"`
}

// Summary is the fit report of one ensemble.
type Summary struct {
	RunID     string                `yaml:"run_id"`
	Generated time.Time             `yaml:"generated"`
	Samples   int                   `yaml:"samples"`
	Params    ensemble.Params       `yaml:"params"`
	Folds     []FoldSummary         `yaml:"folds"`
	Columns   []metrics.ColumnScore `yaml:"columns"`
}

// Build scores every out-of-fold column of a fitted ensemble against y.
func Build(e *ensemble.Ensemble, y mat.Matrix) (*Summary, error) {
	oof, err := e.OutOfFold()
	if err != nil {
		return nil, err
	}
	folds, err := e.Folds()
	if err != nil {
		return nil, err
	}
	scores, err := metrics.ScoreColumns(oof, y, e.Columns())
	if err != nil {
		return nil, errors.Wrap(err, "score out-of-fold columns")
	}

	n, _ := oof.Dims()
	s := &Summary{
		RunID:     e.RunID(),
		Generated: time.Now().UTC(),
		Samples:   n,
		Params:    e.Params(),
		Folds:     make([]FoldSummary, len(folds)),
		Columns:   scores,
	}
	for i, f := range folds {
		s.Folds[i] = FoldSummary{Train: len(f.TrainIndices), Holdout: len(f.TestIndices)}
	}
	return s, nil
}

// WriteTable renders the column scores as a table.
func (s *Summary) WriteTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("Column", "MSE", "R2")
	for _, c := range s.Columns {
		if err := table.Append(c.Column, formatScore(c.MSE), formatScore(c.R2)); err != nil {
			return errors.Wrap(err, "append row")
		}
	}
	return table.Render()
}

// WriteYAML writes the full summary.
func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "encode report")
	}
	return enc.Close()
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
