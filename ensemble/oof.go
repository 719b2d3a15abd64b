package ensemble

import (
	"context"
	"time"

	"github.com/YuminosukeSato/blend/core/parallel"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/pkg/log"
	"github.com/YuminosukeSato/blend/pkg/telemetry"
	"github.com/YuminosukeSato/blend/sklearn/model_selection"
	"gonum.org/v1/gonum/mat"
)

// OutOfFoldPredictor builds the meta-training matrix M. Row i of M holds the
// predictions for sample i made by learners that never saw sample i: for
// every fold, each case's chain and each learner are fitted on the training
// rows only and predict the holdout rows.
//
// Work runs in two phases on a bounded pool. Phase one has a unit per (fold,
// case) that fits the chain and transforms both row sets. Phase two has a
// unit per (fold, learner) that fits a fresh learner and predicts the
// holdout. Every fitted chain and learner is dropped when Predict returns.
type OutOfFoldPredictor struct {
	pool     *Pool
	splitter model_selection.Splitter
	workers  int
	logger   log.Logger
	metrics  *telemetry.Collector
}

// NewOutOfFoldPredictor creates a predictor over pool. The folding, worker,
// logger and metrics options of an Ensemble apply.
func NewOutOfFoldPredictor(pool *Pool, opts ...Option) *OutOfFoldPredictor {
	s := &settings{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	s.resolve()
	return &OutOfFoldPredictor{
		pool:     pool,
		splitter: s.newSplitter(),
		workers:  s.cfg.Workers,
		logger:   s.logger,
		metrics:  s.metrics,
	}
}

// foldRows are the rows of one fold, copied out of the dataset.
type foldRows struct {
	train   *mat.Dense
	yTrain  *mat.Dense
	holdout *mat.Dense
}

// prepared is one case's chain output for one fold.
type prepared struct {
	train   mat.Matrix
	holdout mat.Matrix
}

// Predict returns M (n×B, one column per pool entry) and the folds used.
// The fold count is validated before any fold work starts. The first failing
// unit aborts the pass and its error is returned; no partial M is returned.
func (p *OutOfFoldPredictor) Predict(ctx context.Context, X, y mat.Matrix) (*mat.Dense, []model_selection.Fold, error) {
	n, err := checkXY("OutOfFoldPredictor.Predict", X, y)
	if err != nil {
		return nil, nil, err
	}
	folds, err := p.splitter.Split(n)
	if err != nil {
		return nil, nil, err
	}
	if err := checkFolds(folds, n); err != nil {
		return nil, nil, err
	}

	begin := time.Now()
	logger := p.logger.With(log.PhaseKey, log.PhaseOutOfFold, log.FoldsKey, len(folds))
	logger.Info("out-of-fold pass started",
		log.SamplesKey, n,
		log.ColumnsKey, p.pool.Width(),
		log.WorkersKey, parallel.Workers(p.workers),
	)

	data := make([]foldRows, len(folds))
	for f, fold := range folds {
		data[f] = foldRows{
			train:   rows(X, fold.TrainIndices),
			yTrain:  rows(y, fold.TrainIndices),
			holdout: rows(X, fold.TestIndices),
		}
	}

	nCases := len(p.pool.cases)
	start := time.Now()
	prep, err := parallel.Run(ctx, p.workers, len(folds)*nCases, func(_ context.Context, i int) (prepared, error) {
		f, c := i/nCases, i%nCases
		out, err := p.preprocess(logger, f, p.pool.cases[c], data[f])
		p.metrics.ObserveUnit(log.PhasePreprocessing, err)
		return out, err
	})
	p.metrics.ObservePhase(log.PhasePreprocessing, time.Since(start))
	if err != nil {
		logger.Error("preprocessing failed", "error", err)
		return nil, nil, err
	}

	width := p.pool.Width()
	start = time.Now()
	preds, err := parallel.Run(ctx, p.workers, len(folds)*width, func(_ context.Context, i int) ([]float64, error) {
		f, e := i/width, i%width
		entry := p.pool.entries[e]
		col, err := p.fitPredict(logger, f, entry, prep[f*nCases+entry.caseIndex], data[f].yTrain)
		p.metrics.ObserveUnit(log.PhaseOutOfFold, err)
		return col, err
	})
	p.metrics.ObservePhase(log.PhaseOutOfFold, time.Since(start))
	if err != nil {
		logger.Error("out-of-fold fit failed", "error", err)
		return nil, nil, err
	}

	M := mat.NewDense(n, width, nil)
	for i, col := range preds {
		f, e := i/width, i%width
		for r, idx := range folds[f].TestIndices {
			M.Set(idx, e, col[r])
		}
	}

	logger.Info("out-of-fold pass finished", log.DurationMsKey, time.Since(begin).Milliseconds())
	return M, folds, nil
}

func (p *OutOfFoldPredictor) preprocess(logger log.Logger, fold int, cs caseSpec, d foldRows) (prepared, error) {
	chain := cs.Chain.Instantiate(cs.Name)
	train, err := chain.FitTransform(d.train, d.yTrain)
	if err != nil {
		return prepared{}, err
	}
	holdout, err := chain.Transform(d.holdout)
	if err != nil {
		return prepared{}, err
	}
	logger.Debug("fold preprocessed", log.FoldKey, fold, log.CaseKey, cs.Name)
	return prepared{train: train, holdout: holdout}, nil
}

func (p *OutOfFoldPredictor) fitPredict(logger log.Logger, fold int, e Entry, in prepared, y mat.Matrix) ([]float64, error) {
	start := time.Now()
	l, err := instantiate(e)
	if err != nil {
		return nil, err
	}
	if err := fitLearner(e, l, in.train, y); err != nil {
		return nil, err
	}
	col, err := predictColumn(e, l, in.holdout)
	if err != nil {
		return nil, err
	}
	logger.Debug("fold learner fitted",
		log.FoldKey, fold,
		log.CaseKey, e.Case,
		log.LearnerKey, e.Name,
		log.HoldoutKey, len(col),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return col, nil
}

// checkXY validates that X is non-empty and y is an n×1 target aligned with
// it, and returns n.
func checkXY(op string, X, y mat.Matrix) (int, error) {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	ry, cy := y.Dims()
	if ry != n {
		return 0, errors.NewDimensionError(op, n, ry, 0)
	}
	if cy != 1 {
		return 0, errors.NewValueError(op, "y must be a column vector")
	}
	return n, nil
}

// checkFolds verifies that the holdout sets partition [0, n) and that no
// fold trains on its own holdout rows.
func checkFolds(folds []model_selection.Fold, n int) error {
	if missing, duplicated := model_selection.Coverage(folds, n); len(missing) > 0 || len(duplicated) > 0 {
		return errors.NewFoldCoverageError(missing, duplicated)
	}
	for k, fold := range folds {
		if len(fold.TestIndices) == 0 || len(fold.TrainIndices) == 0 {
			return errors.NewValidationError("fold", "empty training or holdout set", k)
		}
		held := make(map[int]struct{}, len(fold.TestIndices))
		for _, idx := range fold.TestIndices {
			held[idx] = struct{}{}
		}
		for _, idx := range fold.TrainIndices {
			if _, leak := held[idx]; leak || idx < 0 || idx >= n {
				return errors.NewValidationError("fold", "training rows overlap the holdout or fall outside the data", k)
			}
		}
	}
	return nil
}

// rows copies the rows idx of m into a new dense matrix.
func rows(m mat.Matrix, idx []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for r, i := range idx {
		for j := 0; j < c; j++ {
			out.Set(r, j, m.At(i, j))
		}
	}
	return out
}
