// Package weighting implements the instance-weighting active-learning
// engine: a per-instance acceptance test built on a counterfactual retraining
// probe and an adaptively tuned confidence threshold.
package weighting

import (
	"context"

	"github.com/XiaoConstantine/streamal-go/pkg/budget"
	"github.com/XiaoConstantine/streamal-go/pkg/config"
	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"github.com/XiaoConstantine/streamal-go/pkg/logging"
)

// thresholdFloor keeps the confidence threshold strictly positive. The
// threshold-growth update divides by the current threshold, so the value must
// never reach zero even though the adaptation rule alone cannot drive it
// there from a valid initialization.
const thresholdFloor = 1e-6

// Engine is the instance-weighting decision engine. It processes one stream
// instance per call and decides whether that instance's label is worth
// requesting.
type Engine struct {
	cfg    config.WeightingConfig
	proto  core.Learner
	budget *budget.Controller
	logger *logging.Logger

	learner             core.Learner
	confidenceThreshold float64
	seen                int
	acquired            int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLearningRate overrides the adaptation step / solver tolerance.
func WithLearningRate(rate float64) Option {
	return func(e *Engine) { e.cfg.LearningRate = rate }
}

// WithInitialConfidenceThreshold overrides the threshold seed.
func WithInitialConfidenceThreshold(threshold float64) Option {
	return func(e *Engine) { e.cfg.InitialConfidenceThreshold = threshold }
}

// WithWarmup overrides the number of unconditionally trained lead instances.
func WithWarmup(count int) Option {
	return func(e *Engine) { e.cfg.WarmupInstances = count }
}

// WithBudget overrides the budget configuration.
func WithBudget(cfg config.BudgetConfig) Option {
	return func(e *Engine) { e.cfg.Budget = cfg }
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg config.WeightingConfig) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an instance-weighting engine over a prototype learner. The
// prototype is copied and reset; it is never trained directly.
func New(proto core.Learner, opts ...Option) (*Engine, error) {
	if proto == nil {
		return nil, errors.New(errors.InvalidInput, "base learner is required")
	}

	e := &Engine{
		cfg:    config.DefaultWeighting(),
		proto:  proto,
		logger: logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ValidationFailed, "invalid weighting configuration")
	}

	e.ResetState()
	return e, nil
}

// ResetState reinitializes the learner, the confidence threshold and all
// counters.
func (e *Engine) ResetState() {
	e.learner = e.proto.Copy()
	e.learner.Reset()
	e.budget = budget.NewController(e.cfg.Budget)
	e.confidenceThreshold = e.cfg.InitialConfidenceThreshold
	e.seen = 0
	e.acquired = 0
}

// ProcessInstance consumes one stream instance and decides whether to
// request its label. A skipped instance (budget exhausted or probe rejected)
// leaves the learner untouched.
func (e *Engine) ProcessInstance(inst *core.Instance) error {
	if inst == nil {
		return errors.New(errors.InvalidInput, "nil instance")
	}

	e.seen++
	if e.seen <= e.cfg.WarmupInstances {
		e.learner.Train(inst)
		return nil
	}

	p := e.learner.Predict(inst)
	y1 := p.MaxIndex()

	// With fewer than two class hypotheses, or a top posterior of exactly
	// zero, the acceptance test cannot run: treat the instance as an
	// implicit label acquisition and train unconditionally.
	if len(p) < 2 || p[y1] == 0 {
		e.acquired++
		e.learner.Train(inst)
		return nil
	}

	e.budget.Observe()
	if !e.budget.Admit() {
		return nil
	}

	y2 := p.MaxIndexExcluding(y1)

	// Counterfactual probe: train a throwaway copy on the instance
	// relabeled to y2 at the current confidence threshold weight, then ask
	// it about the original instance.
	probe := e.learner.Copy()
	counterfactual := inst.Copy()
	counterfactual.Weight = e.confidenceThreshold
	counterfactual.Label = y2
	probe.Train(counterfactual)

	if probe.Predict(inst).MaxIndex() == y1 {
		// The probe failed to flip the opinion: reject, no state changes.
		return nil
	}

	if e.budget.Enforced() {
		e.budget.Spend()
	}
	e.acquired++

	w := SufficientWeight(e.learner, inst, y1, y2, e.cfg.LearningRate)
	lr := e.cfg.LearningRate
	if inst.Label == y1 {
		e.confidenceThreshold -= lr * (e.confidenceThreshold - w)
	} else {
		e.confidenceThreshold += lr * (w * (1 - e.confidenceThreshold) / e.confidenceThreshold)
	}
	e.confidenceThreshold = clampThreshold(e.confidenceThreshold)

	e.logger.Debug(context.Background(), "label acquired: y1=%d true=%d w=%.6f threshold=%.6f",
		y1, inst.Label, w, e.confidenceThreshold)

	e.learner.Train(inst)
	return nil
}

// Predict exposes the live learner's opinion without training.
func (e *Engine) Predict(inst *core.Instance) core.Posterior {
	return e.learner.Predict(inst)
}

// DrainAcquisitionCount returns the labels acquired since the previous call
// and resets the counter.
func (e *Engine) DrainAcquisitionCount() int {
	n := e.acquired
	e.acquired = 0
	return n
}

// ConfidenceThreshold returns the current adaptive threshold.
func (e *Engine) ConfidenceThreshold() float64 {
	return e.confidenceThreshold
}

// Measurements reports the engine's adaptive state.
func (e *Engine) Measurements() []core.Measurement {
	return []core.Measurement{
		{Name: "confidence threshold", Value: e.confidenceThreshold},
		{Name: "in current period", Value: float64(e.budget.Processed())},
		{Name: "budget spent", Value: e.budget.Spent()},
	}
}

func clampThreshold(t float64) float64 {
	switch {
	case t < thresholdFloor:
		return thresholdFloor
	case t > 1:
		return 1
	default:
		return t
	}
}

var _ core.AcquisitionEngine = (*Engine)(nil)
