package model

// LearnerSpec describes a learner without being one. New must return a fresh,
// unfitted instance that shares no mutable state with any other instance the
// spec has produced: the ensemble instantiates the same spec once per fold and
// once more for the production refit.
type LearnerSpec interface {
	New() Learner
}

// LearnerFunc adapts a constructor to LearnerSpec.
//
//	spec := model.LearnerFunc(func() model.Learner { return linear.NewLinearRegression() })
type LearnerFunc func() Learner

// New implements LearnerSpec.
func (f LearnerFunc) New() Learner { return f() }

// TransformerSpec describes a transformer; New returns a fresh instance.
type TransformerSpec interface {
	New() Transformer
}

// TransformerFunc adapts a constructor to TransformerSpec.
type TransformerFunc func() Transformer

// New implements TransformerSpec.
func (f TransformerFunc) New() Transformer { return f() }
