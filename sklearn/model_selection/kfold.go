// Package model_selection partitions samples into folds for out-of-fold
// prediction.
package model_selection

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/blend/pkg/errors"
)

// Splitter partitions the sample index range [0, nSamples) into folds.
type Splitter interface {
	Split(nSamples int) ([]Fold, error)
	GetNSplits() int
}

// Fold is one train/holdout partition. TestIndices are the held-out rows;
// TrainIndices are all remaining rows in ascending order.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold partitioning.
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed uint64
}

// NewKFold creates a k-fold splitter. nSplits is validated by Split, not
// here, because the valid range depends on the number of samples.
func NewKFold(nSplits int, shuffle bool, randomSeed uint64) *KFold {
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split returns NSplits folds whose holdout sets are disjoint, cover every
// index exactly once, and differ in size by at most one (the first
// nSamples%NSplits folds are one larger).
//
// Without shuffling the holdout sets are contiguous blocks in input order and
// the seed is ignored. With shuffling they are blocks of a permutation drawn
// from a PCG source seeded with RandomSeed.
func (kf *KFold) Split(nSamples int) ([]Fold, error) {
	if kf.NSplits < 2 || kf.NSplits > nSamples {
		return nil, errors.NewInvalidFoldCountError(kf.NSplits, nSamples)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.RandomSeed, kf.RandomSeed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	// owner[i] is the fold that holds index i out
	owner := make([]int, nSamples)

	current := 0
	for f := 0; f < kf.NSplits; f++ {
		testSize := foldSize
		if f < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])
		for _, idx := range test {
			owner[idx] = f
		}
		folds[f].TestIndices = test
		folds[f].TrainIndices = make([]int, 0, nSamples-testSize)
		current += testSize
	}

	for idx := 0; idx < nSamples; idx++ {
		for f := range folds {
			if owner[idx] != f {
				folds[f].TrainIndices = append(folds[f].TrainIndices, idx)
			}
		}
	}

	return folds, nil
}

// Coverage counts how many times each index in [0, nSamples) appears as a
// holdout row across folds and returns the indices that appear zero times and
// more than once. Indices outside the range are reported as duplicated.
func Coverage(folds []Fold, nSamples int) (missing, duplicated []int) {
	counts := make([]int, nSamples)
	var outOfRange []int
	for _, fold := range folds {
		for _, idx := range fold.TestIndices {
			if idx < 0 || idx >= nSamples {
				outOfRange = append(outOfRange, idx)
				continue
			}
			counts[idx]++
		}
	}
	for idx, c := range counts {
		switch {
		case c == 0:
			missing = append(missing, idx)
		case c > 1:
			duplicated = append(duplicated, idx)
		}
	}
	return missing, append(duplicated, outOfRange...)
}
