package datasets

import (
	"math/rand"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// Synthetic is an endless stream of Gaussian class clusters whose centers
// drift by a random walk, providing gradual concept drift for exercising the
// engines' forgetting behavior. Two generators with the same seed emit
// identical sequences.
type Synthetic struct {
	classes   int
	features  int
	driftRate float64
	noise     float64
	seed      int64

	rng     *rand.Rand
	centers [][]float64
}

// SyntheticOption configures the generator.
type SyntheticOption func(*Synthetic)

// WithClasses sets how many class clusters the stream emits.
func WithClasses(n int) SyntheticOption {
	return func(s *Synthetic) { s.classes = n }
}

// WithFeatures sets the feature dimensionality.
func WithFeatures(n int) SyntheticOption {
	return func(s *Synthetic) { s.features = n }
}

// WithDriftRate sets the per-instance random-walk step of every class center.
// Zero disables drift.
func WithDriftRate(rate float64) SyntheticOption {
	return func(s *Synthetic) { s.driftRate = rate }
}

// WithNoise sets the standard deviation of features around their center.
func WithNoise(stddev float64) SyntheticOption {
	return func(s *Synthetic) { s.noise = stddev }
}

// WithSeed fixes the random sequence.
func WithSeed(seed int64) SyntheticOption {
	return func(s *Synthetic) { s.seed = seed }
}

// NewSynthetic creates a drifting Gaussian stream. Defaults: two classes,
// two features, noise 1, no drift, seed 1.
func NewSynthetic(opts ...SyntheticOption) (*Synthetic, error) {
	s := &Synthetic{
		classes:  2,
		features: 2,
		noise:    1,
		seed:     1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.classes < 2 {
		return nil, errors.New(errors.InvalidInput, "need at least two classes")
	}
	if s.features < 1 {
		return nil, errors.New(errors.InvalidInput, "need at least one feature")
	}
	if s.driftRate < 0 || s.noise < 0 {
		return nil, errors.New(errors.InvalidInput, "drift rate and noise must be non-negative")
	}

	s.Restart()
	return s, nil
}

// Restart reseeds the generator, replaying the exact same sequence.
func (s *Synthetic) Restart() {
	s.rng = rand.New(rand.NewSource(s.seed))
	// Centers start on a fixed lattice: class c lives at coordinate 4c on
	// every axis, keeping clusters initially well separated.
	s.centers = make([][]float64, s.classes)
	for c := range s.centers {
		center := make([]float64, s.features)
		for f := range center {
			center[f] = float64(4 * c)
		}
		s.centers[c] = center
	}
}

// Next never returns an error; the stream is infinite.
func (s *Synthetic) Next() (*core.Instance, error) {
	label := s.rng.Intn(s.classes)
	features := make([]float64, s.features)
	for f := range features {
		features[f] = s.centers[label][f] + s.rng.NormFloat64()*s.noise
	}

	if s.driftRate > 0 {
		for _, center := range s.centers {
			for f := range center {
				center[f] += s.rng.NormFloat64() * s.driftRate
			}
		}
	}
	return core.NewInstance(features, label), nil
}
