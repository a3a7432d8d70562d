// Package evaluation runs prequential (test-then-train) evaluations of
// acquisition engines over instance streams, tracking accuracy against label
// spend and journaling periodic snapshots.
package evaluation

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/datasets"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"github.com/XiaoConstantine/streamal-go/pkg/journal"
	"github.com/XiaoConstantine/streamal-go/pkg/logging"
)

// Result is the outcome of one evaluation run.
type Result struct {
	RunID        string
	Name         string
	Instances    int
	Correct      int
	Acquisitions int
	Measurements []core.Measurement
	Elapsed      time.Duration
}

// Accuracy is the fraction of correct predictions over the whole run.
func (r *Result) Accuracy() float64 {
	if r.Instances == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Instances)
}

// AcquisitionRate is the fraction of instances whose label was requested.
func (r *Result) AcquisitionRate() float64 {
	if r.Instances == 0 {
		return 0
	}
	return float64(r.Acquisitions) / float64(r.Instances)
}

// Evaluator drives prequential runs. An optional journal receives a record
// every interval instances and a closing record at the end of the run.
type Evaluator struct {
	interval int
	journal  journal.Journal
	observer Observer
	logger   *logging.Logger
}

// Observer is called at every snapshot with the live result and the engine's
// current measurements, e.g. to feed a metrics exporter.
type Observer func(result *Result, measurements []core.Measurement)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithInterval sets how many instances pass between journal snapshots.
func WithInterval(n int) Option {
	return func(e *Evaluator) { e.interval = n }
}

// WithJournal attaches a snapshot sink.
func WithJournal(j journal.Journal) Option {
	return func(e *Evaluator) { e.journal = j }
}

// WithObserver attaches a snapshot callback.
func WithObserver(fn Observer) Option {
	return func(e *Evaluator) { e.observer = fn }
}

// New creates an evaluator. The default snapshot interval is 1000.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		interval: 1000,
		logger:   logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates one engine prequentially: each instance is first predicted,
// then handed to the engine for its acquisition decision and training. A
// limit of zero or less runs until the stream ends, which never happens on
// endless generators.
func (e *Evaluator) Run(ctx context.Context, name string, engine core.AcquisitionEngine, stream datasets.Stream, limit int) (*Result, error) {
	if engine == nil {
		return nil, errors.New(errors.InvalidInput, "engine is required")
	}
	if stream == nil {
		return nil, errors.New(errors.InvalidInput, "stream is required")
	}
	if limit <= 0 && e.interval <= 0 {
		return nil, errors.New(errors.InvalidInput, "unbounded run needs a positive snapshot interval")
	}

	result := &Result{
		RunID: uuid.New().String(),
		Name:  name,
	}
	start := time.Now()
	sequence := 0

	for limit <= 0 || result.Instances < limit {
		if err := errors.CheckContext(ctx, "evaluation run"); err != nil {
			return nil, err
		}

		inst, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "reading evaluation stream")
		}

		if engine.Predict(inst).MaxIndex() == inst.Label {
			result.Correct++
		}
		if err := engine.ProcessInstance(inst); err != nil {
			return nil, err
		}
		result.Instances++

		if e.interval > 0 && result.Instances%e.interval == 0 {
			if err := e.snapshot(ctx, result, engine, &sequence); err != nil {
				return nil, err
			}
		}
	}

	if e.interval <= 0 || result.Instances%e.interval != 0 {
		if err := e.snapshot(ctx, result, engine, &sequence); err != nil {
			return nil, err
		}
	}
	result.Measurements = engine.Measurements()
	result.Elapsed = time.Since(start)

	e.logger.Info(ctx, "run %s (%s): %d instances, accuracy %.4f, %d acquisitions",
		result.RunID, result.Name, result.Instances, result.Accuracy(), result.Acquisitions)
	return result, nil
}

// snapshot drains the engine's acquisition counter into the result and, when
// a journal is attached, appends one record.
func (e *Evaluator) snapshot(ctx context.Context, result *Result, engine core.AcquisitionEngine, sequence *int) error {
	result.Acquisitions += engine.DrainAcquisitionCount()
	current := engine.Measurements()
	if e.observer != nil {
		e.observer(result, current)
	}
	if e.journal == nil {
		return nil
	}

	measurements := make(map[string]float64, len(current))
	for _, m := range current {
		measurements[m.Name] = m.Value
	}
	rec := journal.Record{
		RunID:        result.RunID,
		Sequence:     *sequence,
		Timestamp:    time.Now().UTC(),
		Engine:       result.Name,
		Instances:    result.Instances,
		Acquisitions: result.Acquisitions,
		Accuracy:     result.Accuracy(),
		Measurements: measurements,
	}
	*sequence++
	return e.journal.Append(ctx, rec)
}

// Candidate pairs an engine with the stream it is evaluated on. Engines hold
// mutable state, so every candidate needs its own engine and stream.
type Candidate struct {
	Name   string
	Engine core.AcquisitionEngine
	Stream datasets.Stream
}

// Compare runs all candidates concurrently under the same limit and returns
// their results in candidate order.
func (e *Evaluator) Compare(ctx context.Context, limit int, candidates ...Candidate) ([]*Result, error) {
	if len(candidates) == 0 {
		return nil, errors.New(errors.InvalidInput, "no candidates to compare")
	}

	results := make([]*Result, len(candidates))
	p := pool.New().WithErrors().WithContext(ctx)
	for i, c := range candidates {
		p.Go(func(ctx context.Context) error {
			result, err := e.Run(ctx, c.Name, c.Engine, c.Stream, limit)
			if err != nil {
				return errors.WithFields(err, errors.Fields{"candidate": c.Name})
			}
			results[i] = result
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
