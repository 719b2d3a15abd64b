package ensemble

// Params is a read-only view of how an ensemble is configured and laid out.
type Params struct {
	Config Config       `yaml:"config" json:"config"`
	Meta   string       `yaml:"meta" json:"meta"`
	Cases  []CaseParams `yaml:"cases" json:"cases"`
}

// CaseParams describes one resolved preprocessing case.
type CaseParams struct {
	Name         string   `yaml:"name" json:"name"`
	Transformers []string `yaml:"transformers" json:"transformers"`
	Learners     []string `yaml:"learners" json:"learners"`
	Columns      []string `yaml:"columns" json:"columns"`
}

// Params returns the resolved configuration. Names are the ones New settled
// on, collision suffixes included.
func (e *Ensemble) Params() Params {
	out := Params{
		Config: e.settings.cfg,
		Meta:   e.metaName,
		Cases:  make([]CaseParams, len(e.pool.cases)),
	}
	for i, cs := range e.pool.cases {
		cp := CaseParams{Name: cs.Name, Transformers: cs.Chain.Names()}
		for _, idx := range cs.entries {
			entry := e.pool.entries[idx]
			cp.Learners = append(cp.Learners, entry.Name)
			cp.Columns = append(cp.Columns, entry.Column)
		}
		out.Cases[i] = cp
	}
	return out
}
