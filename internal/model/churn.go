package model

import "time"

// Column names shared between the upload schema and the scoring artifact.
const (
	ColumnCustomerID  = "customerID"
	ColumnProbability = "churn_probability"
	ColumnRiskLevel   = "risk_level"
)

// GenericRecord is a schema-agnostic map for one customer row
type GenericRecord map[string]interface{}

// RiskLevel is the discretized churn risk bucket
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Risk thresholds: <0.3 Low, [0.3,0.7] Medium, >0.7 High
const (
	LowRiskBelow  = 0.3
	HighRiskAbove = 0.7
)

// RiskLevelFor maps a churn probability to its risk bucket.
func RiskLevelFor(probability float64) RiskLevel {
	switch {
	case probability < LowRiskBelow:
		return RiskLow
	case probability > HighRiskAbove:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// ValidRiskLevel reports whether s is one of the known buckets.
func ValidRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// BatchSource tags where a batch of predictions came from
type BatchSource string

const (
	SourceModel     BatchSource = "model"     // real scoring process
	SourceSimulated BatchSource = "simulated" // heuristic fallback
)

// CustomerTable is a validated upload: ordered rows plus the original
// column order. Each record holds the customerID column and arbitrary
// feature columns.
type CustomerTable struct {
	Columns []string        `json:"columns"`
	Records []GenericRecord `json:"records"`
}

// Len returns the number of customer rows.
func (t *CustomerTable) Len() int {
	return len(t.Records)
}

// IDs returns the customer identifiers in row order.
func (t *CustomerTable) IDs() []string {
	ids := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		id, _ := rec[ColumnCustomerID].(string)
		ids = append(ids, id)
	}
	return ids
}

// HasColumn reports whether the table carries the named column.
func (t *CustomerTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Prediction is one scored customer
type Prediction struct {
	CustomerID       string    `json:"customerID"`
	ChurnProbability float64   `json:"churn_probability"`
	RiskLevel        RiskLevel `json:"risk_level"`
}

// Summary holds the aggregate statistics of a batch
type Summary struct {
	TotalCustomers int     `json:"total_customers"`
	HighRisk       int     `json:"high_risk"`
	MediumRisk     int     `json:"medium_risk"`
	LowRisk        int     `json:"low_risk"`
	AvgProbability float64 `json:"avg_probability"`
}

// Batch is the complete result of one pipeline run: ordered predictions,
// aggregate statistics, provenance tag and creation time.
type Batch struct {
	Predictions []Prediction `json:"predictions"`
	Summary     Summary      `json:"summary"`
	Source      BatchSource  `json:"source"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// NewBatch assembles a batch from ordered predictions, computing the
// summary so that risk counts always sum to the record count.
func NewBatch(predictions []Prediction, source BatchSource) *Batch {
	return &Batch{
		Predictions: predictions,
		Summary:     Summarize(predictions),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
	}
}

// Summarize computes per-risk-level counts and the mean probability.
func Summarize(predictions []Prediction) Summary {
	s := Summary{TotalCustomers: len(predictions)}
	if len(predictions) == 0 {
		return s
	}
	var total float64
	for _, p := range predictions {
		total += p.ChurnProbability
		switch p.RiskLevel {
		case RiskHigh:
			s.HighRisk++
		case RiskMedium:
			s.MediumRisk++
		default:
			s.LowRisk++
		}
	}
	s.AvgProbability = total / float64(len(predictions))
	return s
}
