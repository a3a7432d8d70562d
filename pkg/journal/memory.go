package journal

import (
	"context"
	"sort"
	"sync"

	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// MemoryJournal keeps records in process memory. Suitable for tests and
// single-run evaluations that only need the final report.
type MemoryJournal struct {
	mu   sync.RWMutex
	runs map[string][]Record
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{runs: make(map[string][]Record)}
}

func (j *MemoryJournal) Append(ctx context.Context, rec Record) error {
	if err := errors.CheckContext(ctx, "journal"); err != nil {
		return err
	}
	if rec.RunID == "" {
		return errors.New(errors.InvalidInput, "record needs a run ID")
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs[rec.RunID] = append(j.runs[rec.RunID], rec)
	return nil
}

func (j *MemoryJournal) Records(ctx context.Context, runID string) ([]Record, error) {
	if err := errors.CheckContext(ctx, "journal"); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	recs, ok := j.runs[runID]
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "unknown run"),
			errors.Fields{"run_id": runID})
	}
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}

func (j *MemoryJournal) Runs(ctx context.Context) ([]string, error) {
	if err := errors.CheckContext(ctx, "journal"); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	ids := make([]string, 0, len(j.runs))
	for id := range j.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (j *MemoryJournal) Close() error {
	return nil
}

var _ Journal = (*MemoryJournal)(nil)
