package learner

import (
	"math"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

// minVariance keeps Gaussian densities finite on constant features.
const minVariance = 1e-9

// GaussianNB is an incremental weighted Gaussian naive Bayes classifier.
// Per class and feature it maintains a weighted mean and scaled variance
// (West's weighted Welford update), so weighted counterfactual training is
// exact rather than approximated by sample duplication.
type GaussianNB struct {
	classes []*classStats // indexed by label, nil until the class is seen
	total   float64
}

type classStats struct {
	weight float64
	mean   []float64
	m2     []float64
}

// NewGaussianNB creates an empty Gaussian naive Bayes learner.
func NewGaussianNB() *GaussianNB {
	return &GaussianNB{}
}

// Train folds one weighted instance into the per-class statistics.
func (g *GaussianNB) Train(inst *core.Instance) {
	if inst == nil || inst.Weight <= 0 {
		return
	}

	for len(g.classes) <= inst.Label {
		g.classes = append(g.classes, nil)
	}
	cs := g.classes[inst.Label]
	if cs == nil {
		cs = &classStats{
			mean: make([]float64, len(inst.Features)),
			m2:   make([]float64, len(inst.Features)),
		}
		g.classes[inst.Label] = cs
	}

	w := inst.Weight
	cs.weight += w
	g.total += w
	for i, x := range inst.Features {
		if i >= len(cs.mean) {
			break
		}
		delta := x - cs.mean[i]
		cs.mean[i] += (w / cs.weight) * delta
		cs.m2[i] += w * delta * (x - cs.mean[i])
	}
}

// Predict returns normalized class posteriors: prior times the product of
// per-feature Gaussian densities. The vector length is
// (highest trained label)+1; untrained labels score zero.
func (g *GaussianNB) Predict(inst *core.Instance) core.Posterior {
	p := make(core.Posterior, len(g.classes))
	if g.total == 0 {
		return p
	}

	var sum float64
	for label, cs := range g.classes {
		if cs == nil || cs.weight == 0 {
			continue
		}
		score := cs.weight / g.total
		for i, x := range inst.Features {
			if i >= len(cs.mean) {
				break
			}
			variance := cs.m2[i] / cs.weight
			if variance < minVariance {
				variance = minVariance
			}
			diff := x - cs.mean[i]
			score *= math.Exp(-diff*diff/(2*variance)) / math.Sqrt(2*math.Pi*variance)
		}
		p[label] = score
		sum += score
	}

	if sum > 0 {
		for i := range p {
			p[i] /= sum
		}
	}
	return p
}

// Copy returns an independent learner with identical statistics.
func (g *GaussianNB) Copy() core.Learner {
	cp := &GaussianNB{total: g.total}
	cp.classes = make([]*classStats, len(g.classes))
	for label, cs := range g.classes {
		if cs == nil {
			continue
		}
		mean := make([]float64, len(cs.mean))
		copy(mean, cs.mean)
		m2 := make([]float64, len(cs.m2))
		copy(m2, cs.m2)
		cp.classes[label] = &classStats{weight: cs.weight, mean: mean, m2: m2}
	}
	return cp
}

// Reset clears all learned statistics.
func (g *GaussianNB) Reset() {
	g.classes = nil
	g.total = 0
}
