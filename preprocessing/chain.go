package preprocessing

import (
	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/internal/naming"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Step is one named transformer of a chain.
type Step struct {
	Name string
	Spec model.TransformerSpec
}

// ChainSpec is an immutable, ordered list of transformer steps. Each call to
// Instantiate yields an independent Chain.
type ChainSpec struct {
	steps []Step
}

// NewChainSpec copies steps into a ChainSpec, resolving their names: empty
// names come from the transformer type, repeated names get a numeric suffix.
func NewChainSpec(steps ...Step) (ChainSpec, error) {
	resolved := make([]Step, len(steps))
	names := make([]string, len(steps))
	for i, s := range steps {
		if s.Spec == nil {
			return ChainSpec{}, errors.NewValidationError("step", "transformer spec is nil", i)
		}
		resolved[i] = s
		names[i] = s.Name
		if names[i] == "" {
			names[i] = naming.TypeName(s.Spec.New())
		}
	}
	for i, n := range naming.Dedupe(names) {
		resolved[i].Name = n
	}
	return ChainSpec{steps: resolved}, nil
}

// Steps returns a copy of the resolved steps.
func (s ChainSpec) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Names returns the resolved step names in order.
func (s ChainSpec) Names() []string {
	out := make([]string, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.Name
	}
	return out
}

// Len returns the number of steps.
func (s ChainSpec) Len() int { return len(s.steps) }

// Instantiate returns a fresh, unfitted chain. caseName is only used to label
// errors.
func (s ChainSpec) Instantiate(caseName string) *Chain {
	return &Chain{caseName: caseName, steps: s.steps}
}

// Chain is a fitted (or fittable) sequence of transformer instances. A chain
// with no steps is the identity.
type Chain struct {
	caseName string
	steps    []Step

	fitted      []model.Transformer
	isFitted    bool
	nFeaturesIn int
}

// Fit fits each transformer on the output of the previous one. Transformers
// implementing model.TargetTransformer also receive y. On failure the chain
// stays unfitted and the error is a PreprocessingError wrapping the
// transformer's own error.
func (c *Chain) Fit(X, y mat.Matrix) error {
	_, err := c.FitTransform(X, y)
	return err
}

// FitTransform fits the chain and returns X passed through it.
func (c *Chain) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	c.fitted, c.isFitted = nil, false

	_, p := X.Dims()
	instances := make([]model.Transformer, len(c.steps))
	Xt := X
	for i, step := range c.steps {
		tr := step.Spec.New()
		if tr == nil {
			return nil, errors.NewPreprocessingError(c.caseName, step.Name,
				errors.NewValidationError("transformer", "spec returned nil instance", step.Name))
		}

		err := errors.SafeExecute(step.Name+".Fit", func() error {
			if tt, ok := tr.(model.TargetTransformer); ok && y != nil {
				return tt.FitWithTarget(Xt, y)
			}
			return tr.Fit(Xt)
		})
		if err != nil {
			return nil, errors.NewPreprocessingError(c.caseName, step.Name, err)
		}

		next, err := errors.SafeCall(step.Name+".Transform", func() (mat.Matrix, error) {
			return tr.Transform(Xt)
		})
		if err != nil {
			return nil, errors.NewPreprocessingError(c.caseName, step.Name, err)
		}
		instances[i] = tr
		Xt = next
	}

	c.fitted, c.isFitted, c.nFeaturesIn = instances, true, p
	return Xt, nil
}

// Transform applies the fitted chain to X.
func (c *Chain) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !c.isFitted {
		return nil, errors.NewNotFittedError("Chain", "Transform")
	}
	if _, p := X.Dims(); p != c.nFeaturesIn {
		return nil, errors.NewDimensionError("Chain.Transform", c.nFeaturesIn, p, 1)
	}

	Xt := X
	for i, tr := range c.fitted {
		name := c.steps[i].Name
		next, err := errors.SafeCall(name+".Transform", func() (mat.Matrix, error) {
			return tr.Transform(Xt)
		})
		if err != nil {
			return nil, errors.NewPreprocessingError(c.caseName, name, err)
		}
		Xt = next
	}
	return Xt, nil
}

// IsFitted reports whether the last Fit succeeded.
func (c *Chain) IsFitted() bool { return c.isFitted }

// Len returns the number of steps.
func (c *Chain) Len() int { return len(c.steps) }
