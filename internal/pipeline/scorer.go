package pipeline

import (
	"context"

	"go-churn-pipeline/internal/model"
)

// Scorer turns a validated customer table into a prediction batch. The
// real implementation drives the external scoring process; the simulated
// one generates a schema-identical batch from heuristics. Both honor the
// same contract so the orchestrator can swap between them.
type Scorer interface {
	Score(ctx context.Context, table *model.CustomerTable) (*model.Batch, error)
}
