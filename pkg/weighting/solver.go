package weighting

import (
	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

// SufficientWeight finds, by bisection on [0,1], the minimal instance weight
// at which training a fresh copy of the learner on the instance relabeled to
// y2 still flips its opinion away from y1.
//
// The search keeps the invariant: at `low` the probe predicts y1, at `high`
// it does not. The tolerance doubles as the confidence-threshold adaptation
// step; both represent the same granularity of meaningful change. The cost is
// O(log(1/tolerance)) learner copies and retrains.
func SufficientWeight(l core.Learner, inst *core.Instance, y1, y2 int, tolerance float64) float64 {
	low, high := 0.0, 1.0
	var w float64
	for {
		w = (low + high) / 2

		probe := l.Copy()
		counterfactual := inst.Copy()
		counterfactual.Weight = w
		counterfactual.Label = y2
		probe.Train(counterfactual)

		if probe.Predict(inst).MaxIndex() == y1 {
			low = w
		} else {
			high = w
		}

		if high-low <= tolerance {
			return w
		}
	}
}
