package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"go-churn-pipeline/internal/model"
	"go-churn-pipeline/internal/store"
)

// Run states recorded in the run history.
const (
	StateValidating = "validating"
	StateExecuting  = "executing"
	StateSimulating = "simulating"
	StateCached     = "cached"
	StateFailed     = "failed"
)

// RunTracker receives run state transitions. The sqlite-backed
// implementation lives in the store package.
type RunTracker interface {
	SaveRun(runID string, status string) error
	UpdateRunStatus(runID string, status string) error
	FinishRun(runID string, status string, source model.BatchSource, summary model.Summary, failureReason string) error
}

type nopTracker struct{}

func (nopTracker) SaveRun(string, string) error         { return nil }
func (nopTracker) UpdateRunStatus(string, string) error { return nil }
func (nopTracker) FinishRun(string, string, model.BatchSource, model.Summary, string) error {
	return nil
}

// Runner owns the hand-off to the scoring process. It enforces
// single-flight execution: a run requested while another is in flight is
// rejected with model.ErrBusy rather than queued, so a stale upload can
// never overwrite a fresher batch after an arbitrary delay.
type Runner struct {
	Real            Scorer
	Fallback        Scorer
	Results         *store.ResultStore
	Track           RunTracker
	FallbackEnabled bool

	mu sync.Mutex
}

// Run validates the table, scores it, and atomically publishes the batch
// as current. forceSimulate skips the real scorer entirely (demo mode).
// An execution failure switches to the fallback simulator unless fallback
// is disabled, in which case the structured reason surfaces to the caller.
func (r *Runner) Run(ctx context.Context, table *model.CustomerTable, forceSimulate bool) (string, *model.Batch, error) {
	if !r.mu.TryLock() {
		return "", nil, model.ErrBusy
	}
	defer r.mu.Unlock()

	track := r.Track
	if track == nil {
		track = nopTracker{}
	}

	// A validation failure surfaces immediately: no run row, no state
	// change, the current batch stays as it was.
	if err := ValidateTable(table); err != nil {
		return "", nil, err
	}

	runID := uuid.New().String()
	if err := track.SaveRun(runID, StateValidating); err != nil {
		log.Printf("⚠️ run %s: failed to record run: %v", runID, err)
	}

	var batch *model.Batch
	var err error
	if forceSimulate {
		trackStatus(track, runID, StateSimulating)
		batch, err = r.Fallback.Score(ctx, table)
	} else {
		trackStatus(track, runID, StateExecuting)
		batch, err = r.Real.Score(ctx, table)

		var execErr *model.ExecutionError
		if errors.As(err, &execErr) {
			if !r.FallbackEnabled {
				trackFinish(track, runID, StateFailed, "", model.Summary{}, string(execErr.Reason))
				return runID, nil, err
			}
			log.Printf("⚠️ run %s: scoring process failed (%s), switching to simulator", runID, execErr.Reason)
			trackStatus(track, runID, StateSimulating)
			batch, err = r.Fallback.Score(ctx, table)
		}
	}
	if err != nil {
		trackFinish(track, runID, StateFailed, "", model.Summary{}, err.Error())
		return runID, nil, fmt.Errorf("run %s: %w", runID, err)
	}

	// Most recently completed run becomes current.
	r.Results.Set(batch)
	trackFinish(track, runID, StateCached, batch.Source, batch.Summary, "")

	fmt.Printf("🧠 Run %s complete: %d customers scored (%s), %d high risk\n",
		runID, batch.Summary.TotalCustomers, batch.Source, batch.Summary.HighRisk)
	return runID, batch, nil
}

func trackStatus(track RunTracker, runID, status string) {
	if err := track.UpdateRunStatus(runID, status); err != nil {
		log.Printf("⚠️ run %s: failed to record status %s: %v", runID, status, err)
	}
}

func trackFinish(track RunTracker, runID, status string, source model.BatchSource, summary model.Summary, reason string) {
	if err := track.FinishRun(runID, status, source, summary, reason); err != nil {
		log.Printf("⚠️ run %s: failed to record final state: %v", runID, err)
	}
}
