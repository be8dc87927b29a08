package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go-churn-pipeline/internal/model"
	"go-churn-pipeline/pkg/utils"
)

// SimulatedScorer produces a schema-valid batch without the external
// scoring process. Probabilities come from a small set of heuristics over
// whatever feature columns the upload happens to carry:
//
//   - shorter tenure raises the estimate (newer customers churn more)
//   - higher MonthlyCharges raises it
//   - a Month-to-month contract raises it, a One year contract slightly
//
// plus bounded random jitter for realism. The result is clipped to [0,1]
// and tagged source=simulated so consumers can always tell it apart from
// model output.
type SimulatedScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedScorer seeds the generator from the clock.
func NewSimulatedScorer() *SimulatedScorer {
	return NewSeededSimulatedScorer(time.Now().UnixNano())
}

// NewSeededSimulatedScorer gives deterministic output for a fixed seed.
func NewSeededSimulatedScorer(seed int64) *SimulatedScorer {
	return &SimulatedScorer{rng: rand.New(rand.NewSource(seed))}
}

const (
	simBaseRate       = 0.18
	simTenureWeight   = 0.25
	simChargesWeight  = 0.20
	simContractWeight = 0.20
	simJitter         = 0.05
	simTenureHorizon  = 72.0 // months after which tenure stops mattering
)

func (s *SimulatedScorer) Score(ctx context.Context, table *model.CustomerTable) (*model.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	predictions := make([]model.Prediction, 0, table.Len())
	for _, rec := range table.Records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled: %w", err)
		}

		prob := simBaseRate

		if tenure, ok := utils.Numeric(rec["tenure"]); ok {
			months := utils.Clip(tenure, 0, simTenureHorizon)
			prob += simTenureWeight * (1 - months/simTenureHorizon)
		}
		if charges, ok := utils.Numeric(rec["MonthlyCharges"]); ok {
			// Telco-style charges roughly span 20..100 per month.
			prob += simChargesWeight * utils.Clip((charges-20)/80, 0, 1)
		}
		if contract, ok := rec["Contract"].(string); ok {
			switch strings.TrimSpace(contract) {
			case "Month-to-month":
				prob += simContractWeight
			case "One year":
				prob += simContractWeight * 0.25
			}
		}

		prob += (s.rng.Float64()*2 - 1) * simJitter
		prob = utils.Clip(prob, 0, 1)

		id, _ := rec[model.ColumnCustomerID].(string)
		predictions = append(predictions, model.Prediction{
			CustomerID:       id,
			ChurnProbability: prob,
			RiskLevel:        model.RiskLevelFor(prob),
		})
	}

	return model.NewBatch(predictions, model.SourceSimulated), nil
}
