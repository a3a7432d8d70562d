package ensemble

import (
	"math"
	"sync"
	"testing"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decayed computes one decay step for a window of weight w at rank k.
func decayed(w float64, k float64, b float64) float64 {
	e := math.Exp(-b * (k + 1))
	v := math.Pow(math.Pow(w, k)*2*e*(1+e), 1/(k+1))
	if v > 1 {
		return 1
	}
	return v
}

func TestWindowAddSyncsInstanceWeight(t *testing.T) {
	w := newWindow(0)
	w.SetWeight(0.5)

	inst := core.NewInstance([]float64{1}, 0)
	w.Add(inst)

	require.Equal(t, 1, w.Len())
	assert.Equal(t, 0.5, w.Get(0).Weight)
}

func TestWindowAddRejectsNil(t *testing.T) {
	w := newWindow(0)
	assert.Panics(t, func() { w.Add(nil) })
}

func TestWindowSetWeightRewritesInstances(t *testing.T) {
	w := newWindow(0)
	w.Add(core.NewInstance([]float64{1}, 0))
	w.Add(core.NewInstance([]float64{2}, 1))

	w.SetWeight(0.25)
	for _, inst := range w.Instances() {
		assert.Equal(t, 0.25, inst.Weight)
	}

	assert.Panics(t, func() { w.SetWeight(-0.1) })
}

func TestWindowConcurrentAdd(t *testing.T) {
	w := newWindow(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Add(core.NewInstance([]float64{1}, 0))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, w.Len())
}

func TestStoreOrdersWindowsOldestFirst(t *testing.T) {
	s := NewStore()
	first := s.NewWindow()
	second := s.NewWindow()
	require.Less(t, first.Seq(), second.Seq())

	s.Add(first)
	s.Add(second)

	ws := s.Windows()
	require.Len(t, ws, 2)
	assert.Same(t, first, ws[0])
	assert.Same(t, second, ws[1])
	assert.Same(t, second, s.Newest())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Newest())
}

func TestDecayMatchesClosedForm(t *testing.T) {
	s := NewStore()
	oldest := s.NewWindow()
	middle := s.NewWindow()
	newest := s.NewWindow()
	s.Add(oldest)
	s.Add(middle)
	s.Add(newest)

	const b = 0.9
	s.Decay(b, 0.0001)

	// Rank counts from the newest window.
	assert.InDelta(t, decayed(1, 1, b), newest.Weight(), 1e-12)
	assert.InDelta(t, decayed(1, 2, b), middle.Weight(), 1e-12)
	assert.InDelta(t, decayed(1, 3, b), oldest.Weight(), 1e-12)
}

func TestDecayNeverIncreasesUnitWeight(t *testing.T) {
	s := NewStore()
	w := s.NewWindow()
	s.Add(w)

	prev := w.Weight()
	for i := 0; i < 20; i++ {
		s.Decay(0.9, 0.0001)
		if s.Len() == 0 {
			break
		}
		assert.LessOrEqual(t, w.Weight(), prev)
		prev = w.Weight()
	}
}

func TestDecayEvictsBelowThreshold(t *testing.T) {
	s := NewStore()
	oldest := s.NewWindow()
	newest := s.NewWindow()
	s.Add(oldest)
	s.Add(newest)

	// With b=0.9 the rank-2 weight drops below the rank-1 weight, so a
	// threshold between the two evicts only the older window.
	lo := decayed(1, 2, 0.9)
	hi := decayed(1, 1, 0.9)
	require.Less(t, lo, hi)

	s.Decay(0.9, (lo+hi)/2)

	require.Equal(t, 1, s.Len())
	assert.Same(t, newest, s.Windows()[0])
}

func TestDecayEvictsAfterFullPass(t *testing.T) {
	s := NewStore()
	oldest := s.NewWindow()
	newest := s.NewWindow()
	s.Add(oldest)
	s.Add(newest)

	// Both fall below an aggressive threshold, yet the older window is
	// still decayed at rank 2, not re-ranked mid-pass.
	s.Decay(0.9, 0.99)

	assert.Equal(t, 0, s.Len())
	assert.InDelta(t, decayed(1, 2, 0.9), oldest.Weight(), 1e-12)
}
