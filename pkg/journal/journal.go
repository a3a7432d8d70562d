// Package journal persists evaluation run records: periodic snapshots of an
// engine's accuracy, label spend and adaptive state, keyed by run.
package journal

import (
	"context"
	"time"
)

// Record is one evaluation snapshot within a run.
type Record struct {
	RunID        string             `json:"run_id"`
	Sequence     int                `json:"sequence"`
	Timestamp    time.Time          `json:"timestamp"`
	Engine       string             `json:"engine"`
	Instances    int                `json:"instances"`
	Acquisitions int                `json:"acquisitions"`
	Accuracy     float64            `json:"accuracy"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

// Journal is an append-only sink of evaluation records.
type Journal interface {
	// Append stores one record.
	Append(ctx context.Context, rec Record) error
	// Records returns all records of a run in append order.
	Records(ctx context.Context, runID string) ([]Record, error)
	// Runs lists the distinct run IDs present in the journal.
	Runs(ctx context.Context) ([]string, error)
	// Close releases the underlying storage.
	Close() error
}
