// Package worker implements the isolated-worker job model of §5: a parse
// may run in a background goroutine with its own wall-clock timeout
// (≈30 minutes), reporting progress/complete/error over a channel, with
// an optional bbolt-backed ledger so an `async: true` job's state survives
// process restarts. Grounded on the teacher's goroutine+channel usage in
// internal/ingestion/orchestrator.go, generalized from a fixed ingestion
// pipeline to an arbitrary parseengine.Engine.Parse call.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tsgraph/tsgraph/internal/config"
	"github.com/tsgraph/tsgraph/internal/parseengine"
)

var jobsBucket = []byte("jobs")

// JobStatus mirrors gm.ProjectStatus but tracks the worker's own view,
// which may say "failed" due to a timeout before the store write lands.
type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// JobRecord is the bbolt-persisted state for one async job.
type JobRecord struct {
	JobID     string    `json:"jobId"`
	ProjectID string    `json:"projectId"`
	Status    JobStatus `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Ledger persists job state to a bbolt file, so a caller who restarts
// while an async job is running can still query what happened.
type Ledger struct {
	db *bbolt.DB
}

// OpenLedger opens (creating if absent) the bbolt state file at path.
func OpenLedger(path string) (*Ledger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("worker: open ledger %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(jobsBucket)
		return e
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("worker: init ledger bucket: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

func (l *Ledger) put(rec JobRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return l.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(jobsBucket).Put([]byte(rec.JobID), data)
	})
}

// Get returns a job's last recorded state.
func (l *Ledger) Get(jobID string) (JobRecord, bool, error) {
	var rec JobRecord
	found := false
	err := l.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(jobsBucket).Get([]byte(jobID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	return rec, found, err
}

// Run launches req as a background job against engine, enforcing the
// worker timeout from wc.Timeout (§5 "wall-clock timeout (≈30 minutes)").
// Progress messages are forwarded to progress (may be nil); the ledger (may
// be nil, for sync/non-async callers) is updated on start and completion.
func Run(parent context.Context, jobID string, engine *parseengine.Engine, req config.ParseRequest, wc config.WorkerConfig, ledger *Ledger, progress chan<- parseengine.Progress) <-chan error {
	done := make(chan error, 1)

	if ledger != nil {
		_ = ledger.put(JobRecord{JobID: jobID, ProjectID: req.ProjectID, Status: JobRunning, StartedAt: time.Now()})
	}

	go func() {
		ctx, cancel := context.WithTimeout(parent, wc.Timeout)
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			errCh <- engine.Parse(ctx, req, progress)
		}()

		var result error
		select {
		case result = <-errCh:
		case <-ctx.Done():
			result = fmt.Errorf("worker: job %s timed out after %s", jobID, wc.Timeout)
		}

		if ledger != nil {
			rec := JobRecord{JobID: jobID, ProjectID: req.ProjectID, EndedAt: time.Now()}
			if result != nil {
				rec.Status = JobFailed
				rec.Error = result.Error()
			} else {
				rec.Status = JobDone
			}
			_ = ledger.put(rec)
		}
		done <- result
		close(done)
	}()

	return done
}
