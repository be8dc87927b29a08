package store

import "go-churn-pipeline/internal/model"

// RunLog adapts the sqlite run-history functions to the orchestrator's
// tracker interface.
type RunLog struct{}

func (RunLog) SaveRun(runID string, status string) error {
	return SaveRun(runID, status)
}

func (RunLog) UpdateRunStatus(runID string, status string) error {
	return UpdateRunStatus(runID, status)
}

func (RunLog) FinishRun(runID string, status string, source model.BatchSource, summary model.Summary, failureReason string) error {
	return FinishRun(runID, status, source, summary, failureReason)
}
