package ensemble

import (
	"testing"

	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"github.com/XiaoConstantine/streamal-go/pkg/learner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicatePairs(t *testing.T) {
	r := NewRegistry()

	require.True(t, r.Add(newMember(0, 1, learner.NewMajorityClass())))
	assert.False(t, r.Add(newMember(0, 1, learner.NewMajorityClass())))
	// Pair equality ignores order.
	assert.False(t, r.Add(newMember(1, 0, learner.NewMajorityClass())))
	assert.Equal(t, 1, r.Size())
}

func TestRegistryKnownLabels(t *testing.T) {
	r := NewRegistry()
	r.Add(newMember(2, 0, learner.NewMajorityClass()))
	r.Add(newMember(0, 1, learner.NewMajorityClass()))

	assert.Equal(t, []int{0, 1, 2}, r.KnownLabels())
	assert.True(t, r.Knows(2))
	assert.False(t, r.Knows(3))
	assert.Len(t, r.MembersFor(0), 2)
	assert.Len(t, r.MembersFor(1), 1)
}

func TestGrowForLabelCreatesOneMemberPerKnownLabel(t *testing.T) {
	r := NewRegistry()
	r.Add(newMember(0, 1, learner.NewMajorityClass()))

	created, err := r.GrowForLabel(2, learner.NewMajorityClass())
	require.NoError(t, err)

	// Exactly |known labels| new members, one per existing label.
	assert.Len(t, created, 2)
	assert.Equal(t, 3, r.Size())
	assert.Equal(t, []int{0, 1, 2}, r.KnownLabels())

	// Growth again: |known labels| is now 3.
	created, err = r.GrowForLabel(3, learner.NewMajorityClass())
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Equal(t, 6, r.Size())
}

func TestGrowForKnownLabelIsAnError(t *testing.T) {
	r := NewRegistry()
	r.Add(newMember(0, 1, learner.NewMajorityClass()))

	_, err := r.GrowForLabel(1, learner.NewMajorityClass())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.LabelAlreadyKnown))
	assert.Equal(t, 1, r.Size())
}

func TestGrowPreservesPairUniqueness(t *testing.T) {
	r := NewRegistry()
	r.Add(newMember(0, 1, learner.NewMajorityClass()))
	_, err := r.GrowForLabel(2, learner.NewMajorityClass())
	require.NoError(t, err)
	_, err = r.GrowForLabel(3, learner.NewMajorityClass())
	require.NoError(t, err)

	seen := make(map[pairKey]bool)
	for _, m := range r.Members() {
		a, b := m.Labels()
		key := keyFor(a, b)
		assert.False(t, seen[key], "duplicate pair %v", key)
		seen[key] = true
	}
}

func TestMemberWeightMustStayPositive(t *testing.T) {
	m := newMember(0, 1, learner.NewMajorityClass())
	assert.Equal(t, 1.0, m.Weight())

	m.SetWeight(0.5)
	assert.Equal(t, 0.5, m.Weight())

	assert.Panics(t, func() { m.SetWeight(0) })
	assert.Panics(t, func() { m.SetWeight(-1) })
}

func TestMemberCovers(t *testing.T) {
	m := newMember(3, 5, learner.NewMajorityClass())
	assert.True(t, m.Covers(3))
	assert.True(t, m.Covers(5))
	assert.False(t, m.Covers(4))
}
