package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"github.com/XiaoConstantine/streamal-go/pkg/logging"
)

// SQLiteJournal persists records in a SQLite database. If path is ":memory:"
// the database lives in-memory and dies with the journal.
type SQLiteJournal struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	initialized sync.Once
}

// NewSQLiteJournal opens (and if needed initializes) a journal database.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to open journal database"),
			errors.Fields{"path": path},
		)
	}
	// In-memory databases exist per connection; a single connection keeps
	// the journal coherent.
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db, path: path}
	if err := j.ensureInitialized(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *SQLiteJournal) ensureInitialized() error {
	var initErr error
	j.initialized.Do(func() {
		if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.StorageFailed, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS run_records (
            run_id       TEXT NOT NULL,
            sequence     INTEGER NOT NULL,
            ts           DATETIME NOT NULL,
            engine       TEXT NOT NULL,
            instances    INTEGER NOT NULL,
            acquisitions INTEGER NOT NULL,
            accuracy     REAL NOT NULL,
            measurements TEXT,
            PRIMARY KEY (run_id, sequence)
        );

        CREATE INDEX IF NOT EXISTS idx_run_records_run_id
        ON run_records(run_id);
        `
		if _, err := j.db.Exec(query); err != nil {
			initErr = errors.WithFields(
				errors.Wrap(err, errors.StorageFailed, "failed to initialize journal schema"),
				errors.Fields{"query": query},
			)
		}
	})
	return initErr
}

func (j *SQLiteJournal) Append(ctx context.Context, rec Record) error {
	if rec.RunID == "" {
		return errors.New(errors.InvalidInput, "record needs a run ID")
	}

	measurements, err := json.Marshal(rec.Measurements)
	if err != nil {
		return errors.Wrap(err, errors.InvalidInput, "failed to marshal measurements")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to begin transaction"),
			errors.Fields{"run_id": rec.RunID},
		)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logging.GetLogger().Error(context.Background(), "failed to rollback transaction: %v", err)
		}
	}()

	_, err = tx.ExecContext(ctx, `
    INSERT INTO run_records (run_id, sequence, ts, engine, instances, acquisitions, accuracy, measurements)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Sequence, rec.Timestamp, rec.Engine,
		rec.Instances, rec.Acquisitions, rec.Accuracy, string(measurements))
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to insert record"),
			errors.Fields{"run_id": rec.RunID, "sequence": rec.Sequence},
		)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to commit record")
	}
	return nil
}

func (j *SQLiteJournal) Records(ctx context.Context, runID string) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, `
    SELECT run_id, sequence, ts, engine, instances, acquisitions, accuracy, measurements
    FROM run_records WHERE run_id = ? ORDER BY sequence`, runID)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to query records"),
			errors.Fields{"run_id": runID},
		)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var measurements sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.Sequence, &rec.Timestamp, &rec.Engine,
			&rec.Instances, &rec.Acquisitions, &rec.Accuracy, &measurements); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan record")
		}
		if measurements.Valid && measurements.String != "null" {
			if err := json.Unmarshal([]byte(measurements.String), &rec.Measurements); err != nil {
				return nil, errors.Wrap(err, errors.StorageFailed, "failed to unmarshal measurements")
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to iterate records")
	}
	if records == nil {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "unknown run"),
			errors.Fields{"run_id": runID},
		)
	}
	return records, nil
}

func (j *SQLiteJournal) Runs(ctx context.Context) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, `SELECT DISTINCT run_id FROM run_records ORDER BY run_id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to query runs")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan run ID")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to iterate runs")
	}
	return ids, nil
}

func (j *SQLiteJournal) Close() error {
	if err := j.db.Close(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to close journal database")
	}
	return nil
}

var _ Journal = (*SQLiteJournal)(nil)
