// Package log defines standard attribute keys for blending operations.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples",
// "fold.index") so that logs from concurrent fold workers can be filtered and
// joined after the fact.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "Ensemble", "StandardScaler".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one fit run of an estimator. The ensemble
	// assigns a fresh UUID per Fit call.
	EstimatorIDKey = "estimator.id"

	// OperationKey is the operation being performed: "fit", "predict", "transform".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase, see the Phase* values.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	TargetsKey  = "data.targets"
)

// Blending context
const (
	// FoldKey is the zero based fold index of an out-of-fold unit.
	FoldKey = "fold.index"

	// FoldsKey is the total number of folds.
	FoldsKey = "fold.count"

	// HoldoutKey is the number of holdout rows in a fold.
	HoldoutKey = "fold.holdout"

	// CaseKey is the preprocessing case a unit belongs to.
	CaseKey = "ensemble.case"

	// LearnerKey is the base learner name within its case.
	LearnerKey = "ensemble.learner"

	// ColumnsKey is the number of prediction matrix columns.
	ColumnsKey = "ensemble.columns"

	// StateKey is the ensemble lifecycle state.
	StateKey = "ensemble.state"

	// WorkersKey is the worker pool bound.
	WorkersKey = "infra.workers"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// MSEKey records a mean squared error.
	MSEKey = "metrics.mse"
)

// Error and Warning Context
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	StacktraceKey = "error.stacktrace"
	SuggestionKey = "error.suggestion"
)

// Configuration
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ShuffleKey records whether fold assignment was shuffled.
	ShuffleKey = "config.shuffle"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	PhaseOutOfFold     = "out_of_fold"
	PhaseMeta          = "meta"
	PhaseProduction    = "production"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidFolds      = "INVALID_FOLDS"
	ErrorColumnOrder       = "COLUMN_ORDER"
)
