package ensemble

import (
	"fmt"
	"sort"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// Member is one ensemble member: a binary classifier specialized to
// discriminate exactly one unordered pair of class labels, plus a strictly
// positive reliability weight.
type Member struct {
	a, b    int
	learner core.Learner
	weight  float64
}

func newMember(a, b int, l core.Learner) *Member {
	return &Member{a: a, b: b, learner: l, weight: 1}
}

// Labels returns the member's label pair.
func (m *Member) Labels() (int, int) {
	return m.a, m.b
}

// Covers reports whether the member discriminates the given label.
func (m *Member) Covers(label int) bool {
	return m.a == label || m.b == label
}

// Weight returns the member's reliability weight.
func (m *Member) Weight() float64 {
	return m.weight
}

// SetWeight assigns a new reliability weight. Weights are multiplicatively
// adjusted and must stay strictly positive by construction; a non-positive
// value is a programmer error.
func (m *Member) SetWeight(w float64) {
	if w <= 0 {
		panic(fmt.Sprintf("ensemble: member weight must be positive, got %g", w))
	}
	m.weight = w
}

// pairKey is the normalized unordered label pair used for uniqueness checks.
type pairKey struct {
	lo, hi int
}

func keyFor(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Registry maintains the set of pairwise members. Uniqueness is enforced by
// a map keyed on the normalized pair; a parallel insertion-order slice keeps
// vote order, and with it tie-breaking, deterministic.
type Registry struct {
	byPair  map[pairKey]*Member
	ordered []*Member
}

// NewRegistry creates an empty member registry.
func NewRegistry() *Registry {
	return &Registry{byPair: make(map[pairKey]*Member)}
}

// Add inserts a member. Returns false if a member already covers the same
// unordered label pair.
func (r *Registry) Add(m *Member) bool {
	key := keyFor(m.a, m.b)
	if _, exists := r.byPair[key]; exists {
		return false
	}
	r.byPair[key] = m
	r.ordered = append(r.ordered, m)
	return true
}

// Size returns the number of members.
func (r *Registry) Size() int {
	return len(r.ordered)
}

// Clear removes all members.
func (r *Registry) Clear() {
	r.byPair = make(map[pairKey]*Member)
	r.ordered = nil
}

// Members returns all members in insertion order. The slice is shared; do
// not mutate.
func (r *Registry) Members() []*Member {
	return r.ordered
}

// Knows reports whether any member covers the label.
func (r *Registry) Knows(label int) bool {
	for _, m := range r.ordered {
		if m.Covers(label) {
			return true
		}
	}
	return false
}

// KnownLabels returns every label covered by at least one member, ascending.
func (r *Registry) KnownLabels() []int {
	seen := make(map[int]bool)
	for _, m := range r.ordered {
		seen[m.a] = true
		seen[m.b] = true
	}
	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return labels
}

// MembersFor returns the members covering the label, in insertion order.
func (r *Registry) MembersFor(label int) []*Member {
	var out []*Member
	for _, m := range r.ordered {
		if m.Covers(label) {
			out = append(out, m)
		}
	}
	return out
}

// GrowForLabel creates one new pairwise member between the new label and
// every currently known label, each backed by a fresh reset copy of the
// prototype learner. Growth must only be invoked for genuinely new labels;
// requesting it for a known label is a programmer-error condition.
func (r *Registry) GrowForLabel(label int, proto core.Learner) ([]*Member, error) {
	known := r.KnownLabels()
	for _, existing := range known {
		if existing == label {
			return nil, errors.WithFields(
				errors.New(errors.LabelAlreadyKnown, "label already covered by the ensemble"),
				errors.Fields{"label": label},
			)
		}
	}

	created := make([]*Member, 0, len(known))
	for _, existing := range known {
		l := proto.Copy()
		l.Reset()
		m := newMember(label, existing, l)
		r.byPair[keyFor(label, existing)] = m
		r.ordered = append(r.ordered, m)
		created = append(created, m)
	}
	return created, nil
}
