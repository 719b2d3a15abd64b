// Package dataset reads numeric CSV files into gonum matrices.
package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a feature matrix with an optional target column.
type Dataset struct {
	X        *mat.Dense
	Y        *mat.VecDense // nil when no target column was requested
	Features []string
	Target   string
}

// Load reads path. See Read.
func Load(path, target string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	ds, err := Read(bufio.NewReader(f), target)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return ds, nil
}

// Read parses a CSV whose first record is a header. Every other column must
// hold numbers. When target is non-empty that column becomes Y and the rest
// become X, in file order.
func Read(r io.Reader, target string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.Read", "missing header", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, err
	}
	header = slices.Clone(header)

	targetCol := -1
	features := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if target != "" && name == target {
			targetCol = i
			continue
		}
		features = append(features, name)
	}
	if target != "" && targetCol < 0 {
		return nil, errors.NewValidationError("target", "column not found in header", target)
	}
	if len(features) == 0 {
		return nil, errors.NewValueError("dataset.Read", "no feature columns")
	}

	var xs, ys []float64
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		for i, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %q", line, header[i])
			}
			if i == targetCol {
				ys = append(ys, v)
			} else {
				xs = append(xs, v)
			}
		}
	}

	n := len(xs) / len(features)
	if n == 0 {
		return nil, errors.NewModelError("dataset.Read", "no rows", errors.ErrEmptyData)
	}

	ds := &Dataset{
		X:        mat.NewDense(n, len(features), xs),
		Features: features,
		Target:   target,
	}
	if targetCol >= 0 {
		ds.Y = mat.NewVecDense(n, ys)
	}
	return ds, nil
}

// Write emits a single-column CSV named column with one value per row.
func Write(w io.Writer, column string, values mat.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{column}); err != nil {
		return err
	}
	n, _ := values.Dims()
	for i := 0; i < n; i++ {
		if err := cw.Write([]string{strconv.FormatFloat(values.At(i, 0), 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "write predictions")
	}
	return nil
}
