package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-churn-pipeline/internal/model"
)

// ReadPredictions parses and validates the scoring process's result
// artifact. The artifact must carry customerID and churn_probability
// columns, probabilities in [0,1], and an identifier set exactly equal to
// expectedIDs; extra, missing or repeated identifiers are errors, never
// silently dropped. risk_level is derived from the probability when the
// column is absent and checked against the fixed thresholds when present.
// Row order of the artifact is preserved.
func ReadPredictions(r io.Reader, expectedIDs []string) (*model.Batch, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, malformed(fmt.Errorf("read output header: %w", err))
	}

	idCol, probCol, riskCol := -1, -1, -1
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case model.ColumnCustomerID:
			idCol = i
		case model.ColumnProbability:
			probCol = i
		case model.ColumnRiskLevel:
			riskCol = i
		}
	}
	if idCol < 0 {
		return nil, malformed(fmt.Errorf("output is missing the %s column", model.ColumnCustomerID))
	}
	if probCol < 0 {
		return nil, malformed(fmt.Errorf("output is missing the %s column", model.ColumnProbability))
	}

	expected := make(map[string]bool, len(expectedIDs))
	for _, id := range expectedIDs {
		expected[id] = true
	}

	var predictions []model.Prediction
	seen := make(map[string]bool, len(expectedIDs))
	for line := 2; ; line++ {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, malformed(fmt.Errorf("read output line %d: %w", line, err))
		}

		id := strings.TrimSpace(row[idCol])
		if !expected[id] {
			return nil, malformed(fmt.Errorf("output contains unexpected customer %q", id))
		}
		if seen[id] {
			return nil, malformed(fmt.Errorf("output contains customer %q more than once", id))
		}
		seen[id] = true

		prob, err := strconv.ParseFloat(strings.TrimSpace(row[probCol]), 64)
		if err != nil {
			return nil, malformed(fmt.Errorf("customer %q has a non-numeric probability %q", id, row[probCol]))
		}
		if prob < 0 || prob > 1 {
			return nil, malformed(fmt.Errorf("customer %q has probability %v outside [0,1]", id, prob))
		}

		risk := model.RiskLevelFor(prob)
		if riskCol >= 0 {
			got := strings.TrimSpace(row[riskCol])
			if !model.ValidRiskLevel(got) {
				return nil, malformed(fmt.Errorf("customer %q has unknown risk level %q", id, got))
			}
			if model.RiskLevel(got) != risk {
				return nil, malformed(fmt.Errorf("customer %q risk level %q does not match probability %v", id, got, prob))
			}
		}

		predictions = append(predictions, model.Prediction{
			CustomerID:       id,
			ChurnProbability: prob,
			RiskLevel:        risk,
		})
	}

	if len(seen) != len(expected) {
		var missing []string
		for _, id := range expectedIDs {
			if !seen[id] {
				missing = append(missing, id)
			}
		}
		return nil, malformed(fmt.Errorf("output is missing customers: %s", strings.Join(missing, ", ")))
	}

	return model.NewBatch(predictions, model.SourceModel), nil
}

func malformed(err error) error {
	return model.NewExecutionError(model.ReasonMalformedOutput, err)
}
