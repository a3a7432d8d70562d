package weighting

import (
	"testing"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/learner"
	"github.com/stretchr/testify/assert"
)

// tallyLearner builds a majority-class learner with class 0 at weight 1 and
// class 1 at the given weight, so the minimal flipping weight is the gap.
func tallyLearner(w1 float64) core.Learner {
	l := learner.NewMajorityClass()
	l.Train(core.NewInstance([]float64{0}, 0))
	second := core.NewInstance([]float64{1}, 1)
	second.Weight = w1
	l.Train(second)
	return l
}

func TestSufficientWeightConvergesToGap(t *testing.T) {
	for _, gap := range []float64{0.1, 0.3, 0.5, 0.75} {
		l := tallyLearner(1 - gap)
		inst := core.NewInstance([]float64{2}, 0)

		const tolerance = 0.001
		w := SufficientWeight(l, inst, 0, 1, tolerance)

		// Counterfactual training at the returned weight closes the
		// class gap to within the tolerance.
		assert.InDelta(t, gap, w, tolerance, "gap %.2f", gap)
	}
}

func TestSufficientWeightStaysInUnitInterval(t *testing.T) {
	for _, tolerance := range []float64{0.001, 0.01, 0.2, 0.5} {
		l := tallyLearner(0.4)
		inst := core.NewInstance([]float64{2}, 0)

		w := SufficientWeight(l, inst, 0, 1, tolerance)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
	}
}

func TestSufficientWeightLeavesLearnerUntouched(t *testing.T) {
	l := tallyLearner(0.7)
	inst := core.NewInstance([]float64{2}, 0)

	before := l.Predict(inst)
	SufficientWeight(l, inst, 0, 1, 0.01)
	after := l.Predict(inst)

	assert.Equal(t, before, after)
}
