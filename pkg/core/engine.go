package core

// AcquisitionEngine is the capability set shared by the streaming
// active-learning decision engines.
type AcquisitionEngine interface {
	// ResetState reinitializes all adaptive state (thresholds, budget
	// counters, windows, ensemble members) and the underlying learner(s).
	ResetState()

	// ProcessInstance consumes one stream instance and decides whether to
	// request its label. Budget exhaustion is a normal skip, not an error.
	ProcessInstance(inst *Instance) error

	// Predict exposes the engine's current model opinion on an instance
	// without training or spending budget.
	Predict(inst *Instance) Posterior

	// DrainAcquisitionCount returns the number of labels acquired since the
	// previous call and resets the counter to zero.
	DrainAcquisitionCount() int

	// Measurements reports the engine's current adaptive state.
	Measurements() []Measurement
}

// Measurement is a named scalar reported by an engine: threshold values,
// budget spent, window and ensemble counts.
type Measurement struct {
	Name  string
	Value float64
}
