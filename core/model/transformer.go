package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// TargetTransformer is implemented by transformers whose fit also looks at
// the target, such as supervised feature selectors. Chains call FitWithTarget
// instead of Fit when it is available.
type TargetTransformer interface {
	Transformer
	FitWithTarget(X, y mat.Matrix) error
}
