package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-churn-pipeline/internal/model"
)

var db *sql.DB

// InitDB opens the run-history database. Only run metadata lands here;
// batch contents live exclusively in the ResultStore.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		source TEXT,
		total_customers INTEGER,
		high_risk INTEGER,
		medium_risk INTEGER,
		low_risk INTEGER,
		avg_probability REAL,
		failure_reason TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	_, err = db.Exec(runTable)
	return err
}

// CloseDB closes the database handle.
func CloseDB() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun records a new pipeline run in its initial state.
func SaveRun(runID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		runID, status, now, now)
	return err
}

// UpdateRunStatus moves a run to the next pipeline state.
func UpdateRunStatus(runID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// FinishRun records the terminal state of a run together with the batch
// summary (for cached runs) or the failure reason (for failed ones).
func FinishRun(runID string, status string, source model.BatchSource, summary model.Summary, failureReason string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, source = ?, total_customers = ?, high_risk = ?,
		medium_risk = ?, low_risk = ?, avg_probability = ?, failure_reason = ?, updated_at = ?
		WHERE id = ?`,
		status, string(source), summary.TotalCustomers, summary.HighRisk, summary.MediumRisk,
		summary.LowRisk, summary.AvgProbability, failureReason, now, runID)
	return err
}

// GetRun fetches a single run row.
func GetRun(runID string) (map[string]interface{}, error) {
	row := db.QueryRow(`SELECT id, status, IFNULL(source, ''), IFNULL(total_customers, 0),
		IFNULL(high_risk, 0), IFNULL(medium_risk, 0), IFNULL(low_risk, 0),
		IFNULL(avg_probability, 0), IFNULL(failure_reason, ''), created_at, updated_at
		FROM runs WHERE id = ?`, runID)
	return scanRun(row)
}

// ListRuns returns run history, newest first.
func ListRuns(limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`SELECT id, status, IFNULL(source, ''), IFNULL(total_customers, 0),
		IFNULL(high_risk, 0), IFNULL(medium_risk, 0), IFNULL(low_risk, 0),
		IFNULL(avg_probability, 0), IFNULL(failure_reason, ''), created_at, updated_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (map[string]interface{}, error) {
	var id, status, source, failureReason string
	var total, high, medium, low int
	var avgProbability float64
	var createdAt, updatedAt time.Time

	err := row.Scan(&id, &status, &source, &total, &high, &medium, &low,
		&avgProbability, &failureReason, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	run := map[string]interface{}{
		"id":        id,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}
	if source != "" {
		run["source"] = source
		run["summary"] = model.Summary{
			TotalCustomers: total,
			HighRisk:       high,
			MediumRisk:     medium,
			LowRisk:        low,
			AvgProbability: avgProbability,
		}
	}
	if failureReason != "" {
		run["failureReason"] = failureReason
	}
	return run, nil
}
