package ensemble

import (
	"github.com/YuminosukeSato/blend/core/model"
	"github.com/YuminosukeSato/blend/internal/naming"
	"github.com/YuminosukeSato/blend/pkg/errors"
	"github.com/YuminosukeSato/blend/preprocessing"
)

// Layout is the construction input of an Ensemble: either a FlatList or a
// CasedMap. It is resolved once, by New, into the ensemble's column layout.
type Layout interface {
	layout()
}

// Learner is a named base learner specification. An empty Name is replaced
// by the lower-cased type name of the instance the spec produces.
type Learner struct {
	Name string
	Spec model.LearnerSpec
}

// FlatList is an ordered list of learners fitted on the raw features.
type FlatList struct {
	Learners []Learner
}

// Case is a named preprocessing chain and the ordered learners fitted on its
// output. A Case with no Transformers sees the raw features.
type Case struct {
	Name         string
	Transformers []preprocessing.Step
	Learners     []Learner
}

// CasedMap is an ordered list of preprocessing cases.
type CasedMap struct {
	Cases []Case
}

func (FlatList) layout() {}
func (CasedMap) layout() {}

// caseSpec is one resolved case. The flat layout resolves to a single case
// with an empty name and an empty chain.
type caseSpec struct {
	Name    string
	Chain   preprocessing.ChainSpec
	entries []int
}

func normalize(l Layout) ([]caseSpec, []Entry, error) {
	var raw []Case
	flat := false
	switch v := l.(type) {
	case FlatList:
		flat = true
		raw = []Case{{Learners: v.Learners}}
	case *FlatList:
		flat = true
		raw = []Case{{Learners: v.Learners}}
	case CasedMap:
		raw = v.Cases
	case *CasedMap:
		raw = v.Cases
	default:
		return nil, nil, errors.NewValidationError("layout", "must be a FlatList or a CasedMap", l)
	}
	if len(raw) == 0 {
		return nil, nil, errors.NewValidationError("layout", "no preprocessing cases", 0)
	}

	caseNames := make([]string, len(raw))
	for i, c := range raw {
		caseNames[i] = c.Name
		if caseNames[i] == "" && !flat {
			caseNames[i] = "case"
		}
	}
	caseNames = naming.Dedupe(caseNames)

	var (
		cases   = make([]caseSpec, len(raw))
		entries []Entry
	)
	for ci, c := range raw {
		if len(c.Learners) == 0 {
			return nil, nil, errors.NewValidationError("case", "has no learners", caseNames[ci])
		}
		chain, err := preprocessing.NewChainSpec(c.Transformers...)
		if err != nil {
			return nil, nil, err
		}

		names := make([]string, len(c.Learners))
		for li, lr := range c.Learners {
			if lr.Spec == nil {
				return nil, nil, errors.NewValidationError("learner", "spec is nil", lr.Name)
			}
			names[li] = lr.Name
			if names[li] == "" {
				inst := lr.Spec.New()
				if inst == nil {
					return nil, nil, errors.NewValidationError("learner", "spec returned nil instance", li)
				}
				names[li] = naming.TypeName(inst)
			}
		}
		names = naming.Dedupe(names)

		cases[ci] = caseSpec{Name: caseNames[ci], Chain: chain}
		for li, lr := range c.Learners {
			column := names[li]
			if !flat {
				column = caseNames[ci] + "/" + names[li]
			}
			cases[ci].entries = append(cases[ci].entries, len(entries))
			entries = append(entries, Entry{
				Case:      caseNames[ci],
				Name:      names[li],
				Column:    column,
				Index:     len(entries),
				Spec:      lr.Spec,
				caseIndex: ci,
			})
		}
	}
	return cases, entries, nil
}
