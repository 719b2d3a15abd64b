package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit trains the model on X (n×p) and y (n×1).
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict returns one output row per row of X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Learner is the capability shared by base learners and meta-models.
type Learner interface {
	Fitter
	Predictor
}

// Scorer is implemented by models that can evaluate themselves.
type Scorer interface {
	// Score returns the coefficient of determination R² of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines Learner and Scorer.
type Regressor interface {
	Learner
	Scorer
}
