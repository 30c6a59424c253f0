package syncer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/trackarr/internal/events"
)

// JobManager enforces single-flight execution of full imports and tracks
// the process-wide job state.
type JobManager struct {
	imp *Importer

	running atomic.Bool

	mu    sync.Mutex
	state JobState
	done  chan struct{}
}

// NewJobManager creates a controller for the given import engine.
func NewJobManager(imp *Importer) *JobManager {
	return &JobManager{imp: imp}
}

// Start launches a full import in the background and returns its run id.
// Returns ErrImportRunning while a run is in flight; a second run is
// rejected, never queued.
func (j *JobManager) Start(opts Options) (string, error) {
	if !j.imp.source.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}
	if !j.running.CompareAndSwap(false, true) {
		return "", ErrImportRunning
	}

	now := time.Now()
	runID := uuid.NewString()
	done := make(chan struct{})

	j.mu.Lock()
	j.state = JobState{
		RunID:      runID,
		InProgress: true,
		StartedAt:  &now,
		Errors:     []string{},
	}
	j.done = done
	j.mu.Unlock()

	// Detached from the request that started it. The run keeps going
	// after the HTTP response; Status is how callers observe it.
	go j.run(opts, runID, done)
	return runID, nil
}

func (j *JobManager) run(opts Options, runID string, done chan struct{}) {
	defer close(done)
	defer j.running.Store(false)

	if j.imp.metrics != nil {
		j.imp.metrics.ImportInProgress.Set(1)
		defer j.imp.metrics.ImportInProgress.Set(0)
	}

	j.imp.log.Info("import started", "run_id", runID)
	aborted := j.imp.runFull(context.Background(), opts, j)

	now := time.Now()
	j.mu.Lock()
	j.state.InProgress = false
	j.state.CurrentItem = ""
	j.state.FinishedAt = &now
	final := j.snapshotLocked()
	j.mu.Unlock()

	if aborted {
		j.imp.publish(&events.ImportFailed{
			BaseEvent: events.NewBaseEvent(events.TypeImportFailed, "run", 0),
			RunID:     runID,
			Reason:    "all source fetches failed",
		})
	} else {
		j.imp.publish(&events.ImportCompleted{
			BaseEvent: events.NewBaseEvent(events.TypeImportCompleted, "run", 0),
			RunID:     runID,
			Completed: final.Completed,
			Total:     final.Total,
			Errors:    len(final.Errors),
			Cancelled: final.CancelRequested,
		})
	}
	if j.imp.metrics != nil {
		result := "ok"
		switch {
		case aborted:
			result = "failed"
		case final.CancelRequested:
			result = "cancelled"
		case len(final.Errors) > 0:
			result = "partial"
		}
		j.imp.metrics.SyncRuns.WithLabelValues("import", result).Inc()
	}
	j.imp.log.Info("import finished", "run_id", runID,
		"completed", final.Completed, "total", final.Total,
		"errors", len(final.Errors), "cancelled", final.CancelRequested)
}

// Status returns a snapshot of the current (or last) run.
func (j *JobManager) Status() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.snapshotLocked()
}

func (j *JobManager) snapshotLocked() JobState {
	s := j.state
	s.Errors = append([]string(nil), j.state.Errors...)
	return s
}

// Cancel requests cooperative cancellation of the in-flight run. The
// current item finishes; already-imported items stay. Idempotent, and a
// no-op when nothing is running.
func (j *JobManager) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.InProgress {
		j.state.CancelRequested = true
	}
}

// Running reports whether a run is in flight.
func (j *JobManager) Running() bool { return j.running.Load() }

// Wait blocks until the in-flight run finishes. No-op when idle.
func (j *JobManager) Wait() {
	j.mu.Lock()
	done := j.done
	j.mu.Unlock()
	if done != nil {
		<-done
	}
}

// progressSink implementation. The running import calls these from its
// own goroutine.

func (j *JobManager) runID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state.RunID
}

func (j *JobManager) setTotal(n int) {
	j.mu.Lock()
	j.state.Total = n
	runID := j.state.RunID
	j.mu.Unlock()

	j.imp.publish(&events.ImportStarted{
		BaseEvent:  events.NewBaseEvent(events.TypeImportStarted, "run", 0),
		RunID:      runID,
		TotalItems: n,
	})
}

func (j *JobManager) startItem(label string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.CurrentItem = label
}

func (j *JobManager) itemDone(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.Completed++
	if err != nil {
		j.state.Errors = append(j.state.Errors, fmt.Sprintf("%s: %v", j.state.CurrentItem, err))
	}
}

func (j *JobManager) addError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.Errors = append(j.state.Errors, msg)
}

func (j *JobManager) cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state.CancelRequested
}
