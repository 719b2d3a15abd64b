package model_selection

import (
	"sort"
	"testing"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFold_PartitionProperty(t *testing.T) {
	for _, shuffle := range []bool{false, true} {
		for n := 2; n <= 40; n++ {
			for k := 2; k <= n; k++ {
				folds, err := NewKFold(k, shuffle, 42).Split(n)
				require.NoError(t, err)
				require.Len(t, folds, k)

				missing, duplicated := Coverage(folds, n)
				assert.Empty(t, missing, "n=%d k=%d", n, k)
				assert.Empty(t, duplicated, "n=%d k=%d", n, k)

				minSize, maxSize := n, 0
				for _, f := range folds {
					assert.Equal(t, n, len(f.TrainIndices)+len(f.TestIndices))
					assert.True(t, sort.IntsAreSorted(f.TrainIndices))
					held := make(map[int]bool, len(f.TestIndices))
					for _, idx := range f.TestIndices {
						held[idx] = true
					}
					for _, idx := range f.TrainIndices {
						assert.False(t, held[idx], "index %d in both train and holdout", idx)
					}
					minSize = min(minSize, len(f.TestIndices))
					maxSize = max(maxSize, len(f.TestIndices))
				}
				assert.LessOrEqual(t, maxSize-minSize, 1)
			}
		}
	}
}

func TestKFold_NoShuffleIsContiguous(t *testing.T) {
	folds, err := NewKFold(3, false, 99).Split(7)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, folds[0].TestIndices)
	assert.Equal(t, []int{3, 4}, folds[1].TestIndices)
	assert.Equal(t, []int{5, 6}, folds[2].TestIndices)
	assert.Equal(t, []int{0, 1, 2, 5, 6}, folds[1].TrainIndices)

	// seed is irrelevant without shuffling
	other, err := NewKFold(3, false, 1).Split(7)
	require.NoError(t, err)
	assert.Equal(t, folds, other)
}

func TestKFold_ShuffleIsSeeded(t *testing.T) {
	a, err := NewKFold(5, true, 7).Split(50)
	require.NoError(t, err)
	b, err := NewKFold(5, true, 7).Split(50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewKFold(5, true, 8).Split(50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestKFold_InvalidFoldCount(t *testing.T) {
	cases := []struct {
		name string
		k, n int
	}{
		{"one fold", 1, 100},
		{"zero folds", 0, 10},
		{"more folds than samples", 11, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			folds, err := NewKFold(tc.k, false, 0).Split(tc.n)
			assert.Nil(t, folds)
			var foldErr *errors.InvalidFoldCountError
			require.True(t, errors.As(err, &foldErr))
			assert.Equal(t, tc.k, foldErr.Folds)
			assert.Equal(t, tc.n, foldErr.Samples)
		})
	}
}

func TestCoverage_ReportsViolations(t *testing.T) {
	folds := []Fold{
		{TestIndices: []int{0, 1}},
		{TestIndices: []int{1, 7}},
	}
	missing, duplicated := Coverage(folds, 4)
	assert.Equal(t, []int{2, 3}, missing)
	assert.Equal(t, []int{1, 7}, duplicated)
}
