package core

// Learner is the base-learner capability the decision engines are generic
// over. Engines must only use these four operations; everything else about
// training, prediction and serialization is the learner's business.
type Learner interface {
	// Train updates the model with a single (possibly weighted) instance.
	Train(inst *Instance)

	// Predict returns the posterior vector for the instance, indexed by
	// class label.
	Predict(inst *Instance) Posterior

	// Copy returns an independent learner with identical state. Training
	// the copy must not affect the original.
	Copy() Learner

	// Reset clears all learned state.
	Reset()
}

// Posterior is a classifier's estimated score per class, indexed by class
// label. It is not required to be normalized.
type Posterior []float64

// MaxIndex returns the index of the highest score, breaking ties toward the
// lowest index. Returns -1 for an empty posterior.
func (p Posterior) MaxIndex() int {
	if len(p) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

// MaxIndexExcluding returns the index of the highest score when the given
// index is ignored. Returns -1 if no other index exists.
func (p Posterior) MaxIndexExcluding(skip int) int {
	best := -1
	for i := range p {
		if i == skip {
			continue
		}
		if best < 0 || p[i] > p[best] {
			best = i
		}
	}
	return best
}
