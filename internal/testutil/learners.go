// Package testutil provides deterministic learners and stream builders for
// engine tests.
package testutil

import (
	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

// TrainEvent records one Train call observed by a SpyLearner.
type TrainEvent struct {
	Label  int
	Weight float64
}

// SpyLearner wraps a learner and records every Train call. Copies record
// into their own log, so probe training on counterfactual copies never shows
// up in the live learner's history.
type SpyLearner struct {
	Inner  core.Learner
	Events []TrainEvent
}

// NewSpy wraps the given learner.
func NewSpy(inner core.Learner) *SpyLearner {
	return &SpyLearner{Inner: inner}
}

func (s *SpyLearner) Train(inst *core.Instance) {
	s.Events = append(s.Events, TrainEvent{Label: inst.Label, Weight: inst.Weight})
	s.Inner.Train(inst)
}

func (s *SpyLearner) Predict(inst *core.Instance) core.Posterior {
	return s.Inner.Predict(inst)
}

func (s *SpyLearner) Copy() core.Learner {
	return &SpyLearner{Inner: s.Inner.Copy()}
}

func (s *SpyLearner) Reset() {
	s.Events = nil
	s.Inner.Reset()
}

// Instances builds a stream of single-feature instances from labels; the
// feature value equals the label so learners can separate the classes.
func Instances(labels ...int) []*core.Instance {
	out := make([]*core.Instance, len(labels))
	for i, label := range labels {
		out[i] = core.NewInstance([]float64{float64(label)}, label)
	}
	return out
}
