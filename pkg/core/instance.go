package core

// Instance is a single stream example: a feature vector, a class label and a
// non-negative training weight used as an importance multiplier.
//
// An instance is owned transiently by whichever engine is processing it.
// Engines take a Copy before any counterfactual mutation (weight or label
// override), so the original stream instance is never mutated by a probe.
type Instance struct {
	Features []float64
	Label    int
	Weight   float64
}

// NewInstance creates an instance with weight 1.
func NewInstance(features []float64, label int) *Instance {
	return &Instance{Features: features, Label: label, Weight: 1.0}
}

// Copy returns a deep copy of the instance. The feature slice is cloned so
// mutations on the copy never reach the original.
func (in *Instance) Copy() *Instance {
	features := make([]float64, len(in.Features))
	copy(features, in.Features)
	return &Instance{
		Features: features,
		Label:    in.Label,
		Weight:   in.Weight,
	}
}
