package ensemble

// State is the lifecycle state of an Ensemble.
type State int32

const (
	// StateUninitialized holds no artifacts; Predict fails with NotFittedError.
	StateUninitialized State = iota
	// StateFittingMeta covers the out-of-fold pass and the meta-model fit.
	StateFittingMeta
	// StateFittingProduction covers the full-data refit of chains and learners.
	StateFittingProduction
	// StateReady holds production artifacts and accepts Predict.
	StateReady
	// StatePredicting is reported while at least one Predict runs on a ready
	// ensemble.
	StatePredicting
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateFittingMeta:
		return "fitting_meta"
	case StateFittingProduction:
		return "fitting_production"
	case StateReady:
		return "ready"
	case StatePredicting:
		return "predicting"
	default:
		return "unknown"
	}
}
