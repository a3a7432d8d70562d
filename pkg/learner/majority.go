// Package learner ships reference base learners behind the core.Learner
// contract. The engines are generic over the learner; these implementations
// exist so the repo is usable and testable out of the box.
package learner

import (
	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

// MajorityClass is a weighted per-class tally: its posterior is the
// normalized accumulated training weight per label. Deterministic and cheap,
// which makes it the workhorse of engine tests.
type MajorityClass struct {
	tallies []float64
	total   float64
}

// NewMajorityClass creates an empty majority-class learner.
func NewMajorityClass() *MajorityClass {
	return &MajorityClass{}
}

// Train adds the instance's weight to its label's tally.
func (m *MajorityClass) Train(inst *core.Instance) {
	if inst == nil || inst.Weight <= 0 {
		return
	}
	m.grow(inst.Label)
	m.tallies[inst.Label] += inst.Weight
	m.total += inst.Weight
}

// Predict returns the normalized tallies. The vector length is
// (highest trained label)+1, so a stream that has only shown class 0 yields a
// single-entry posterior.
func (m *MajorityClass) Predict(inst *core.Instance) core.Posterior {
	p := make(core.Posterior, len(m.tallies))
	if m.total == 0 {
		return p
	}
	for i, v := range m.tallies {
		p[i] = v / m.total
	}
	return p
}

// Copy returns an independent learner with identical tallies.
func (m *MajorityClass) Copy() core.Learner {
	tallies := make([]float64, len(m.tallies))
	copy(tallies, m.tallies)
	return &MajorityClass{tallies: tallies, total: m.total}
}

// Reset clears all tallies.
func (m *MajorityClass) Reset() {
	m.tallies = nil
	m.total = 0
}

func (m *MajorityClass) grow(label int) {
	for len(m.tallies) <= label {
		m.tallies = append(m.tallies, 0)
	}
}
