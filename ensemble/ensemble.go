// Package ensemble implements out-of-fold stacked generalization ("blending").
//
// Base learners, optionally grouped behind preprocessing chains, are fitted K
// times on K-1 folds and predict the held-out fold. Their out-of-fold
// predictions form the matrix M on which a meta-model is trained, so the
// meta-model never sees a base learner's in-sample predictions. After the
// meta-model is fitted every chain and base learner is refitted once on the
// full data; Predict feeds those production artifacts to the meta-model.
//
//	ens, err := ensemble.New(
//	    model.LearnerFunc(func() model.Learner { return linear.NewLinearRegression() }),
//	    ensemble.CasedMap{Cases: []ensemble.Case{
//	        {Name: "raw", Learners: []ensemble.Learner{{Spec: knnSpec}}},
//	        {Name: "scaled", Transformers: scaling, Learners: []ensemble.Learner{{Spec: olsSpec}}},
//	    }},
//	    ensemble.WithFolds(5),
//	)
//	err = ens.Fit(X, y)
//	pred, err := ens.Predict(Xtest)
package ensemble

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/core/parallel"
	"github.com/YuminosukeSato/blend/internal/naming"
	"github.com/YuminosukeSato/blend/metrics"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/pkg/log"
	"github.com/YuminosukeSato/blend/preprocessing"
	"github.com/YuminosukeSato/blend/sklearn/model_selection"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Ensemble is a blending ensemble. Fits are serialized; Predict may be called
// concurrently and waits for an in-flight Fit.
type Ensemble struct {
	settings settings
	meta     model.LearnerSpec
	metaName string
	pool     *Pool

	mu         sync.RWMutex
	state      atomic.Int32
	predicting atomic.Int32

	// guarded by mu
	runID string
	prod  *production
}

// production holds everything a ready ensemble owns.
type production struct {
	chains    []*preprocessing.Chain
	learners  []model.Learner
	meta      *MetaModel
	oof       *mat.Dense
	folds     []model_selection.Fold
	columns   []string
	nFeatures int
}

// New resolves layout and returns an Uninitialized ensemble. Naming and
// collision suffixes are settled here, before any fitting.
func New(meta model.LearnerSpec, layout Layout, opts ...Option) (*Ensemble, error) {
	if meta == nil {
		return nil, errors.NewValidationError("meta", "spec is nil", nil)
	}
	metaInstance := meta.New()
	if metaInstance == nil {
		return nil, errors.NewValidationError("meta", "spec returned nil instance", nil)
	}

	pool, err := NewPool(layout)
	if err != nil {
		return nil, err
	}

	s := settings{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	s.resolve()

	e := &Ensemble{
		settings: s,
		meta:     meta,
		metaName: naming.TypeName(metaInstance),
		pool:     pool,
	}
	e.setState(StateUninitialized)
	return e, nil
}

// State returns the current lifecycle state.
func (e *Ensemble) State() State {
	s := State(e.state.Load())
	if s == StateReady && e.predicting.Load() > 0 {
		return StatePredicting
	}
	return s
}

func (e *Ensemble) setState(s State) {
	e.state.Store(int32(s))
	e.settings.metrics.SetState(int(s))
}

// Fit is FitContext with a background context.
func (e *Ensemble) Fit(X, y mat.Matrix) error {
	return e.FitContext(context.Background(), X, y)
}

// FitContext fits the ensemble. Previous production artifacts are dropped
// first; on any failure the ensemble is left Uninitialized and the failing
// unit's error is returned.
func (e *Ensemble) FitContext(ctx context.Context, X, y mat.Matrix) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.prod = nil
	e.runID = uuid.NewString()
	e.setState(StateUninitialized)

	logger := e.settings.logger.With(
		log.EstimatorIDKey, e.runID,
		log.ModelNameKey, "Ensemble",
		log.OperationKey, log.OperationFit,
	)
	begin := time.Now()
	defer func() {
		e.settings.metrics.FitDone(err)
		if err != nil {
			e.prod = nil
			e.setState(StateUninitialized)
			logger.Error("fit failed", "error", err)
		}
	}()

	n, err := checkXY("Ensemble.Fit", X, y)
	if err != nil {
		return err
	}
	_, p := X.Dims()
	logger.Info("fit started",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ColumnsKey, e.pool.Width(),
		log.ShuffleKey, e.settings.cfg.Shuffle,
		log.RandomSeedKey, e.settings.cfg.Seed,
	)

	e.setState(StateFittingMeta)
	oof := &OutOfFoldPredictor{
		pool:     e.pool,
		splitter: e.settings.newSplitter(),
		workers:  e.settings.cfg.Workers,
		logger:   logger,
		metrics:  e.settings.metrics,
	}
	M, folds, err := oof.Predict(ctx, X, y)
	if err != nil {
		return err
	}

	columns := e.pool.Columns()
	input, err := e.metaInput(M, columns)
	if err != nil {
		return err
	}
	start := time.Now()
	meta := NewMetaModel(e.meta)
	err = meta.Fit(input, y, columns)
	e.settings.metrics.ObservePhase(log.PhaseMeta, time.Since(start))
	e.settings.metrics.ObserveUnit(log.PhaseMeta, err)
	if err != nil {
		return err
	}
	logger.Info("meta-model fitted", log.PhaseKey, log.PhaseMeta, log.ModelNameKey, e.metaName)

	e.setState(StateFittingProduction)
	start = time.Now()
	chains, learners, err := e.fitProduction(ctx, logger, X, y)
	e.settings.metrics.ObservePhase(log.PhaseProduction, time.Since(start))
	if err != nil {
		return err
	}

	e.prod = &production{
		chains:    chains,
		learners:  learners,
		meta:      meta,
		oof:       M,
		folds:     folds,
		columns:   columns,
		nFeatures: p,
	}
	e.setState(StateReady)
	logger.Info("fit finished", log.DurationMsKey, time.Since(begin).Milliseconds())
	return nil
}

// fitProduction refits every chain and base learner on the full data.
func (e *Ensemble) fitProduction(ctx context.Context, logger log.Logger, X, y mat.Matrix) ([]*preprocessing.Chain, []model.Learner, error) {
	type fitted struct {
		chain *preprocessing.Chain
		Xt    mat.Matrix
	}
	workers := e.settings.cfg.Workers

	cases, err := parallel.Run(ctx, workers, len(e.pool.cases), func(_ context.Context, i int) (fitted, error) {
		cs := e.pool.cases[i]
		chain := cs.Chain.Instantiate(cs.Name)
		Xt, err := chain.FitTransform(X, y)
		e.settings.metrics.ObserveUnit(log.PhaseProduction, err)
		if err != nil {
			return fitted{}, err
		}
		return fitted{chain: chain, Xt: Xt}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	learners, err := parallel.Run(ctx, workers, e.pool.Width(), func(_ context.Context, i int) (model.Learner, error) {
		entry := e.pool.entries[i]
		l, err := instantiate(entry)
		if err == nil {
			err = fitLearner(entry, l, cases[entry.caseIndex].Xt, y)
		}
		e.settings.metrics.ObserveUnit(log.PhaseProduction, err)
		if err != nil {
			return nil, err
		}
		logger.Debug("production learner fitted", log.PhaseKey, log.PhaseProduction,
			log.CaseKey, entry.Case, log.LearnerKey, entry.Name)
		return l, nil
	})
	if err != nil {
		return nil, nil, err
	}

	chains := make([]*preprocessing.Chain, len(cases))
	for i, c := range cases {
		chains[i] = c.chain
	}
	return chains, learners, nil
}

// Predict is PredictContext with a background context.
func (e *Ensemble) Predict(X mat.Matrix) (mat.Matrix, error) {
	return e.PredictContext(context.Background(), X)
}

// PredictContext returns the meta-model's n×1 prediction for X, computed from
// the production chains and learners. It fails with NotFittedError unless the
// ensemble is ready.
func (e *Ensemble) PredictContext(ctx context.Context, X mat.Matrix) (mat.Matrix, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	prod, err := e.ready("Predict")
	if err != nil {
		return nil, err
	}
	e.predicting.Add(1)
	defer e.predicting.Add(-1)

	M, columns, err := e.predictionMatrix(ctx, prod, X)
	if err != nil {
		return nil, err
	}
	input, err := e.metaInput(M, columns)
	if err != nil {
		return nil, err
	}
	return prod.meta.Predict(input, columns)
}

// Transform returns the base learners' prediction matrix for X, as a Frame
// when tabular output is enabled.
func (e *Ensemble) Transform(X mat.Matrix) (mat.Matrix, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	prod, err := e.ready("Transform")
	if err != nil {
		return nil, err
	}
	e.predicting.Add(1)
	defer e.predicting.Add(-1)

	M, columns, err := e.predictionMatrix(context.Background(), prod, X)
	if err != nil {
		return nil, err
	}
	return e.metaInput(M, columns)
}

// Score returns the R² of Predict(X) against y.
func (e *Ensemble) Score(X, y mat.Matrix) (float64, error) {
	pred, err := e.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, pred)
}

// predictionMatrix replays the production artifacts on X. The returned column
// names are the ones actually assembled, in order.
func (e *Ensemble) predictionMatrix(ctx context.Context, prod *production, X mat.Matrix) (*mat.Dense, []string, error) {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return nil, nil, errors.NewModelError("Ensemble.Predict", "empty data", errors.ErrEmptyData)
	}
	if p != prod.nFeatures {
		return nil, nil, errors.NewDimensionError("Ensemble.Predict", prod.nFeatures, p, 1)
	}

	workers := e.settings.cfg.Workers
	start := time.Now()
	transformed, err := parallel.Run(ctx, workers, len(prod.chains), func(_ context.Context, i int) (mat.Matrix, error) {
		return prod.chains[i].Transform(X)
	})
	if err != nil {
		return nil, nil, err
	}

	cols, err := parallel.Run(ctx, workers, len(prod.learners), func(_ context.Context, i int) ([]float64, error) {
		entry := e.pool.entries[i]
		col, err := predictColumn(entry, prod.learners[i], transformed[entry.caseIndex])
		e.settings.metrics.ObserveUnit(log.PhaseInference, err)
		return col, err
	})
	e.settings.metrics.ObservePhase(log.PhaseInference, time.Since(start))
	if err != nil {
		return nil, nil, err
	}

	M := mat.NewDense(n, len(cols), nil)
	columns := make([]string, len(cols))
	for j, col := range cols {
		M.SetCol(j, col)
		columns[j] = e.pool.entries[j].Column
	}
	return M, columns, nil
}

func (e *Ensemble) metaInput(M *mat.Dense, columns []string) (mat.Matrix, error) {
	if !e.settings.cfg.Tabular {
		return M, nil
	}
	return NewFrame(M, columns)
}

// ready returns the production artifacts; callers hold mu.
func (e *Ensemble) ready(method string) (*production, error) {
	if State(e.state.Load()) != StateReady || e.prod == nil {
		return nil, errors.NewNotFittedError("Ensemble", method)
	}
	return e.prod, nil
}

// OutOfFold returns a copy of the fit-time prediction matrix M.
func (e *Ensemble) OutOfFold() (*mat.Dense, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	prod, err := e.ready("OutOfFold")
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(prod.oof), nil
}

// Folds returns the folds of the last successful fit.
func (e *Ensemble) Folds() ([]model_selection.Fold, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	prod, err := e.ready("Folds")
	if err != nil {
		return nil, err
	}
	out := make([]model_selection.Fold, len(prod.folds))
	for i, f := range prod.folds {
		out[i] = model_selection.Fold{
			TrainIndices: append([]int(nil), f.TrainIndices...),
			TestIndices:  append([]int(nil), f.TestIndices...),
		}
	}
	return out, nil
}

// Columns returns the prediction matrix column names. They are fixed by New.
func (e *Ensemble) Columns() []string {
	return e.pool.Columns()
}

// MetaModel returns the fitted meta-model, or nil unless ready.
func (e *Ensemble) MetaModel() *MetaModel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.prod == nil {
		return nil
	}
	return e.prod.meta
}

// RunID returns the id of the latest fit, empty before the first one.
func (e *Ensemble) RunID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.runID
}
