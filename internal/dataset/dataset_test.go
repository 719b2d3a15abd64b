package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRead(t *testing.T) {
	in := "a, y, b\n1, 10, 2\n3, 30, 4\n"

	ds, err := Read(strings.NewReader(in), "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Features)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), ds.X))
	assert.Equal(t, []float64{10, 30}, ds.Y.RawVector().Data)

	noTarget, err := Read(strings.NewReader(in), "")
	require.NoError(t, err)
	assert.Nil(t, noTarget.Y)
	_, c := noTarget.X.Dims()
	assert.Equal(t, 3, c)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""), "y")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = Read(strings.NewReader("a,b\n1,2\n"), "y")
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = Read(strings.NewReader("a,y\n1,x\n"), "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `line 2 column "y"`)

	_, err = Read(strings.NewReader("a,y\n"), "y")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = Read(strings.NewReader("a,y\n1,2,3\n"), "y")
	assert.Error(t, err)
}

func TestLoadAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n2,4\n"), 0o600))

	ds, err := Load(path, "y")
	require.NoError(t, err)
	assert.Equal(t, "y", ds.Target)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "prediction", mat.NewDense(2, 1, []float64{0.5, 2})))
	assert.Equal(t, "prediction\n0.5\n2\n", buf.String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), "y")
	assert.Error(t, err)
}
