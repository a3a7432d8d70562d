package ensemble

import (
	"math"
	"sync"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

// Window is a fixed-capacity batch of instances carrying one decayable
// aggregate weight in [0,1], applied uniformly to every instance it holds.
// Windows are ordered by a monotonically increasing sequence number assigned
// at creation, so ordering never depends on wall clocks.
type Window struct {
	mu        sync.Mutex
	seq       uint64
	weight    float64
	instances []*core.Instance
}

func newWindow(seq uint64) *Window {
	return &Window{seq: seq, weight: 1}
}

// Seq returns the window's creation sequence number.
func (w *Window) Seq() uint64 {
	return w.seq
}

// Add appends an instance. The append is mutex-guarded: it is the one
// mutation that may be reached from multiple producers feeding the stream.
// A nil instance is a fatal precondition violation.
func (w *Window) Add(inst *core.Instance) {
	if inst == nil {
		panic("ensemble: cannot add nil instance to a window")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.instances = append(w.instances, inst)
	if inst.Weight != w.weight {
		inst.Weight = w.weight
	}
}

// Len returns the number of instances in the window.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.instances)
}

// Get returns the instance at the given index.
func (w *Window) Get(i int) *core.Instance {
	return w.instances[i]
}

// Instances returns the backing slice. Callers must not append to it.
func (w *Window) Instances() []*core.Instance {
	return w.instances
}

// Weight returns the window's current aggregate weight.
func (w *Window) Weight() float64 {
	return w.weight
}

// SetWeight assigns a new aggregate weight and rewrites it onto every
// contained instance. Negative weights are a programmer error.
func (w *Window) SetWeight(v float64) {
	if v < 0 {
		panic("ensemble: window weight cannot be negative")
	}
	w.weight = v
	for _, inst := range w.instances {
		inst.Weight = v
	}
}

// Store is the ordered collection of frozen windows, oldest first.
type Store struct {
	windows []*Window
	nextSeq uint64
}

// NewStore creates an empty window store.
func NewStore() *Store {
	return &Store{}
}

// NewWindow creates an empty window stamped with the next sequence number.
// The window is not retained until Add is called.
func (s *Store) NewWindow() *Window {
	seq := s.nextSeq
	s.nextSeq++
	return newWindow(seq)
}

// Add freezes a window into the store. Windows are created in sequence
// order, so appending preserves the oldest-first ordering.
func (s *Store) Add(w *Window) {
	s.windows = append(s.windows, w)
}

// Len returns the number of retained windows.
func (s *Store) Len() int {
	return len(s.windows)
}

// Windows returns the retained windows, oldest first.
func (s *Store) Windows() []*Window {
	return s.windows
}

// Newest returns the most recently added window, or nil.
func (s *Store) Newest() *Window {
	if len(s.windows) == 0 {
		return nil
	}
	return s.windows[len(s.windows)-1]
}

// Clear drops all retained windows without touching the sequence counter.
func (s *Store) Clear() {
	s.windows = nil
}

// Decay recomputes every retained window's weight, newest first with rank k
// starting at 1, as
//
//	((w^k) * 2 * e^(-b(k+1)) * (1 + e^(-b(k+1))))^(1/(k+1))
//
// capped at 1, where b is the forgetting speed and w the previous weight.
// Windows whose recomputed weight falls below the discard threshold are
// evicted after the pass completes, keeping rank well-defined within it.
func (s *Store) Decay(forgettingSpeed, discardThreshold float64) {
	k := 1.0
	evict := false
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]

		expTerm := math.Exp(-forgettingSpeed * (k + 1))
		newWeight := math.Pow(math.Pow(w.Weight(), k)*2*expTerm*(1+expTerm), 1/(k+1))
		if newWeight > 1 {
			newWeight = 1
		}
		w.SetWeight(newWeight)
		k++

		if newWeight < discardThreshold {
			evict = true
		}
	}

	if !evict {
		return
	}
	kept := s.windows[:0]
	for _, w := range s.windows {
		if w.Weight() >= discardThreshold {
			kept = append(kept, w)
		}
	}
	s.windows = kept
}
