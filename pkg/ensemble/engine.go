// Package ensemble implements the adaptive ensemble active-learning engine:
// a windowed acceptance test over a growing pairwise-classifier ensemble with
// per-member reliability weights and decaying historical windows.
package ensemble

import (
	"context"
	"math/rand"
	"time"

	"github.com/XiaoConstantine/streamal-go/pkg/budget"
	"github.com/XiaoConstantine/streamal-go/pkg/config"
	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"github.com/XiaoConstantine/streamal-go/pkg/logging"
)

// vote is one member's transient classification result: the member's top
// class, the posterior scaled by the member's reliability weight, and the
// originating member.
type vote struct {
	class     int
	posterior float64
	member    *Member
}

// Engine is the adaptive ensemble decision engine. Instances are buffered
// into a current window; decisions happen once the window fills.
type Engine struct {
	cfg    config.EnsembleConfig
	proto  core.Learner
	logger *logging.Logger
	rng    *rand.Rand

	registry *Registry
	store    *Store
	budget   *budget.Controller

	current              *Window
	pendingSeed          *core.Instance
	uncertaintyThreshold float64
	acquired             int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindowSize overrides the window capacity.
func WithWindowSize(size int) Option {
	return func(e *Engine) { e.cfg.WindowSize = size }
}

// WithWeightAdjustment overrides the member reliability step.
func WithWeightAdjustment(factor float64) Option {
	return func(e *Engine) { e.cfg.WeightAdjustment = factor }
}

// WithInitialUncertaintyThreshold overrides the threshold seed.
func WithInitialUncertaintyThreshold(threshold float64) Option {
	return func(e *Engine) { e.cfg.InitialUncertaintyThreshold = threshold }
}

// WithThresholdStep overrides the additive threshold adjustment.
func WithThresholdStep(step float64) Option {
	return func(e *Engine) { e.cfg.ThresholdStep = step }
}

// WithForgettingSpeed overrides the decay constant.
func WithForgettingSpeed(speed float64) Option {
	return func(e *Engine) { e.cfg.ForgettingSpeed = speed }
}

// WithWindowDiscardThreshold overrides the eviction cutoff.
func WithWindowDiscardThreshold(threshold float64) Option {
	return func(e *Engine) { e.cfg.WindowDiscardThreshold = threshold }
}

// WithBudget overrides the budget configuration.
func WithBudget(cfg config.BudgetConfig) Option {
	return func(e *Engine) { e.cfg.Budget = cfg }
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg config.EnsembleConfig) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithRandomSource injects the source behind the randomized acceptance
// threshold, making the engine reproducible under test.
func WithRandomSource(src rand.Source) Option {
	return func(e *Engine) { e.rng = rand.New(src) }
}

// New creates an adaptive ensemble engine over a prototype learner. The
// prototype is never trained directly; every ensemble member gets a fresh
// reset copy.
func New(proto core.Learner, opts ...Option) (*Engine, error) {
	if proto == nil {
		return nil, errors.New(errors.InvalidInput, "base learner is required")
	}

	e := &Engine{
		cfg:    config.DefaultEnsemble(),
		proto:  proto,
		logger: logging.GetLogger(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ValidationFailed, "invalid ensemble configuration")
	}

	e.ResetState()
	return e, nil
}

// ResetState drops all members, windows and adaptive state.
func (e *Engine) ResetState() {
	e.registry = NewRegistry()
	e.store = NewStore()
	e.budget = budget.NewController(e.cfg.Budget)
	e.current = nil
	e.pendingSeed = nil
	e.uncertaintyThreshold = e.cfg.InitialUncertaintyThreshold
	e.acquired = 0
}

// ProcessInstance buffers a copy of the instance into the current window and
// runs the full window pass once the window reaches capacity.
func (e *Engine) ProcessInstance(inst *core.Instance) error {
	if inst == nil {
		return errors.New(errors.InvalidInput, "nil instance")
	}

	if e.current == nil {
		e.current = e.store.NewWindow()
	}
	e.current.Add(inst.Copy())

	if e.current.Len() < e.cfg.WindowSize {
		return nil
	}
	return e.processWindow()
}

// processWindow runs bootstrap if needed, then the acceptance pass, then the
// window closeout with decay and full ensemble retraining.
func (e *Engine) processWindow() error {
	// Window of instances whose labels were acquired this cycle; this is
	// what gets frozen into the store.
	training := e.store.NewWindow()

	start := 0
	if e.registry.Size() == 0 {
		start = e.bootstrap(training)
		if e.registry.Size() == 0 {
			// No second label found yet: defer until more data arrives.
			// The current window stays open and the next instance
			// triggers a fresh pass.
			return nil
		}
	}

	for i := start; i < e.current.Len(); i++ {
		if !e.budget.Admit() {
			continue
		}
		if err := e.decide(e.current.Get(i), training); err != nil {
			return err
		}
	}

	e.store.Add(training)
	e.current = nil

	e.store.Decay(e.cfg.ForgettingSpeed, e.cfg.WindowDiscardThreshold)
	if err := e.rebuild(); err != nil {
		return err
	}

	// Budget is a per-window allowance.
	e.budget.ResetSpend()

	e.logger.Debug(context.Background(), "window closed: members=%d windows=%d threshold=%.4f",
		e.registry.Size(), e.store.Len(), e.uncertaintyThreshold)
	return nil
}

// bootstrap scans the current window for the first two instances carrying
// different labels, seeding exactly one ensemble member. Every scanned
// instance counts as a label acquisition. A single-label candidate is
// remembered across calls in the one-slot pendingSeed holder. Returns the
// index at which the scan stopped.
func (e *Engine) bootstrap(training *Window) int {
	if e.pendingSeed == nil {
		// Grab a seed from the retained windows if any exist.
		if newest := e.store.Newest(); newest != nil && newest.Len() > 0 {
			e.pendingSeed = newest.Get(0).Copy()
			e.pendingSeed.Weight = 1
		}
	}

	secondLabelFound := false
	i := 0
	for ; i < e.current.Len(); i++ {
		e.acquired++ // bootstrap is unconditional labeling
		inst := e.current.Get(i)
		if e.pendingSeed == nil {
			e.pendingSeed = inst
			continue
		}
		if inst.Label != e.pendingSeed.Label {
			secondLabelFound = true
		}
		training.Add(inst)
		training.Add(e.pendingSeed)
		e.pendingSeed = nil
		if secondLabelFound {
			i++ // this instance is consumed; the acceptance pass resumes after it
			break
		}
	}

	e.seedEnsemble(training)
	return i
}

// decide runs the randomized acceptance test for one instance.
func (e *Engine) decide(inst *core.Instance, training *Window) error {
	votes := e.classify(inst)

	var top *vote
	for _, v := range votes {
		if top == nil || v.posterior > top.posterior {
			top = v
		}
	}
	topPosterior := 0.0
	if top != nil {
		topPosterior = top.posterior
	}

	// The acceptance threshold for this single decision is the adaptive
	// threshold scaled by a uniform draw in [0.01, 1), spreading
	// acquisitions probabilistically instead of at a hard cutoff.
	multiplier := 0.01 + e.rng.Float64()*0.99
	randomized := e.uncertaintyThreshold * multiplier

	if topPosterior >= randomized {
		e.uncertaintyThreshold = clamp01(e.uncertaintyThreshold + e.cfg.ThresholdStep)
		return nil
	}

	// Accept: request the label.
	e.budget.Spend()
	e.acquired++

	acquiredInst := inst.Copy()
	acquiredInst.Weight = 1.0
	training.Add(acquiredInst)

	e.uncertaintyThreshold = clamp01(e.uncertaintyThreshold - e.cfg.ThresholdStep)

	for _, v := range votes {
		if v.class == inst.Label {
			v.member.SetWeight(v.member.Weight() * e.cfg.WeightAdjustment)
		} else {
			v.member.SetWeight(v.member.Weight() / e.cfg.WeightAdjustment)
		}
	}

	return e.trainEnsemble(acquiredInst)
}

// classify collects one vote per member: the member's top class with its
// posterior scaled by the member's reliability weight. Members with no
// opinion yet abstain.
func (e *Engine) classify(inst *core.Instance) []*vote {
	var votes []*vote
	for _, m := range e.registry.Members() {
		p := m.learner.Predict(inst)
		if len(p) == 0 {
			continue
		}
		class := p.MaxIndex()
		votes = append(votes, &vote{
			class:     class,
			posterior: p[class] * m.Weight(),
			member:    m,
		})
	}
	return votes
}

// trainEnsemble trains every member covering the instance's label, growing
// the ensemble first when the label is genuinely new: one new pairwise
// member against every currently known label.
func (e *Engine) trainEnsemble(inst *core.Instance) error {
	var members []*Member
	if !e.registry.Knows(inst.Label) {
		var err error
		members, err = e.registry.GrowForLabel(inst.Label, e.proto)
		if err != nil {
			return err
		}
	} else {
		members = e.registry.MembersFor(inst.Label)
	}

	for _, m := range members {
		m.learner.Train(inst)
	}
	return nil
}

// seedEnsemble creates the first ensemble member from the first two
// differently labeled instances found in the retained windows, falling back
// to the given additional window. Returns false when no label pair exists
// yet.
func (e *Engine) seedEnsemble(additional *Window) bool {
	var a, b *core.Instance
	for _, w := range e.store.Windows() {
		for _, inst := range w.Instances() {
			if a == nil {
				a = inst.Copy()
			} else if inst.Label != a.Label {
				b = inst.Copy()
				b.Weight = w.Weight()
				break
			}
		}
		if a != nil && b != nil {
			break
		}
	}

	if a == nil || b == nil {
		if additional != nil {
			for _, inst := range additional.Instances() {
				if a == nil {
					a = inst.Copy()
					a.Weight = 1
				} else if inst.Label != a.Label {
					b = inst.Copy()
					b.Weight = 1
					break
				}
			}
		}
		if a == nil || b == nil {
			return false
		}
	}

	l := e.proto.Copy()
	l.Reset()
	m := newMember(a.Label, b.Label, l)
	m.learner.Train(a)
	m.learner.Train(b)
	e.registry.Add(m)
	return true
}

// rebuild resets the ensemble and retrains it from scratch by replaying
// every retained window's instances at the window's current decayed weight.
// Full retraining is deliberate: ensemble composition can change every
// cycle as new members appear.
func (e *Engine) rebuild() error {
	e.registry.Clear()
	if !e.seedEnsemble(nil) {
		return nil
	}
	for _, w := range e.store.Windows() {
		for _, inst := range w.Instances() {
			inst.Weight = w.Weight()
			if err := e.trainEnsemble(inst); err != nil {
				return err
			}
		}
	}
	return nil
}

// Predict exposes the ensemble's opinion: per class, the maximum scaled
// posterior across all members voting for that class.
func (e *Engine) Predict(inst *core.Instance) core.Posterior {
	var result core.Posterior
	for _, v := range e.classify(inst) {
		for len(result) <= v.class {
			result = append(result, 0)
		}
		if v.posterior > result[v.class] {
			result[v.class] = v.posterior
		}
	}
	return result
}

// DrainAcquisitionCount returns the labels acquired since the previous call
// and resets the counter.
func (e *Engine) DrainAcquisitionCount() int {
	n := e.acquired
	e.acquired = 0
	return n
}

// UncertaintyThreshold returns the current adaptive threshold.
func (e *Engine) UncertaintyThreshold() float64 {
	return e.uncertaintyThreshold
}

// Measurements reports the engine's adaptive state.
func (e *Engine) Measurements() []core.Measurement {
	return []core.Measurement{
		{Name: "uncertainty threshold", Value: e.uncertaintyThreshold},
		{Name: "budget spent", Value: e.budget.Spent()},
		{Name: "num windows", Value: float64(e.store.Len())},
		{Name: "num ensemble members", Value: float64(e.registry.Size())},
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var _ core.AcquisitionEngine = (*Engine)(nil)
