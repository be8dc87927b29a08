package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-churn-pipeline/internal/model"
	"go-churn-pipeline/internal/pipeline"
	"go-churn-pipeline/internal/store"
)

// ChurnHandler serves the prediction pipeline endpoints. It also holds
// the staged upload: the table waiting to be consumed by the next run.
type ChurnHandler struct {
	Runner          *pipeline.Runner
	Results         *store.ResultStore
	Probe           *pipeline.Probe
	FallbackEnabled bool

	mu     sync.Mutex
	staged *model.CustomerTable
}

// Staged returns the table waiting for the next run, nil if none.
func (h *ChurnHandler) Staged() *model.CustomerTable {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.staged
}

// UploadCustomers stages tabular customer data for the next run
// @Summary Upload customer data
// @Description Upload a CSV of customer records. The body must contain a customerID column; identifiers must be unique.
// @Tags customers
// @Accept text/csv
// @Produce json
// @Success 200 {object} map[string]interface{} "Upload accepted"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Router /customers [post]
func (h *ChurnHandler) UploadCustomers(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	table, err := pipeline.ParseCustomerCSV(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := pipeline.ValidateTable(table); err != nil {
		writeError(w, err)
		return
	}

	h.mu.Lock()
	h.staged = table
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   fmt.Sprintf("Upload accepted: %d customers", table.Len()),
		"customers": table.Len(),
		"columns":   table.Columns,
	})
}

// SampleCustomers downloads synthetic customer data in the upload schema
// @Summary Download sample customer CSV
// @Tags customers
// @Produce text/csv
// @Param count query int false "Number of rows" default(10)
// @Success 200 {string} string "CSV content"
// @Router /customers/sample [get]
func (h *ChurnHandler) SampleCustomers(w http.ResponseWriter, r *http.Request) {
	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 10000 {
			count = n
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_customers.csv"`)
	if err := pipeline.WriteSampleCustomerCSV(w, count, time.Now().UnixNano()); err != nil {
		http.Error(w, "Failed to generate sample data", http.StatusInternalServerError)
	}
}

// RunPredictions triggers the pipeline over the staged upload
// @Summary Run churn prediction
// @Description Scores the most recently uploaded customer table. The staged upload is consumed by a successful run.
// @Tags predictions
// @Produce json
// @Param simulate query bool false "Force the heuristic simulator (demo mode)"
// @Success 200 {object} map[string]interface{} "Batch summary and per-customer predictions"
// @Failure 400 {object} map[string]interface{} "No staged upload"
// @Failure 409 {object} map[string]interface{} "A run is already in progress"
// @Failure 502 {object} map[string]interface{} "Scoring failed and fallback is disabled"
// @Router /predictions/run [post]
func (h *ChurnHandler) RunPredictions(w http.ResponseWriter, r *http.Request) {
	forceSimulate, _ := strconv.ParseBool(r.URL.Query().Get("simulate"))

	h.mu.Lock()
	table := h.staged
	h.mu.Unlock()
	if table == nil {
		writeError(w, &model.ValidationError{Message: "no customer data uploaded"})
		return
	}

	runID, batch, err := h.Runner.Run(r.Context(), table, forceSimulate)
	if err != nil {
		writeError(w, err)
		return
	}

	// The upload is consumed by the run; a new upload starts the next cycle.
	h.mu.Lock()
	if h.staged == table {
		h.staged = nil
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      runID,
		"source":      batch.Source,
		"summary":     batch.Summary,
		"predictions": batch.Predictions,
	})
}

// GetPredictions returns the current batch
// @Summary Get current predictions
// @Tags predictions
// @Produce json
// @Success 200 {object} model.Batch
// @Failure 404 {object} map[string]interface{} "No batch computed yet"
// @Router /predictions [get]
func (h *ChurnHandler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	batch := h.Results.Current()
	if batch == nil {
		writeError(w, model.ErrNoBatch)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// DownloadPredictions exports the current batch as CSV
// @Summary Download current predictions as CSV
// @Description Columns are exactly customerID, churn_probability, risk_level.
// @Tags predictions
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Failure 404 {object} map[string]interface{} "No batch computed yet"
// @Router /predictions/download [get]
func (h *ChurnHandler) DownloadPredictions(w http.ResponseWriter, r *http.Request) {
	batch := h.Results.Current()
	if batch == nil {
		writeError(w, model.ErrNoBatch)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="predictions.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{model.ColumnCustomerID, model.ColumnProbability, model.ColumnRiskLevel})
	for _, p := range batch.Predictions {
		_ = cw.Write([]string{
			p.CustomerID,
			strconv.FormatFloat(p.ChurnProbability, 'f', 6, 64),
			string(p.RiskLevel),
		})
	}
	cw.Flush()
}

// ListRuns returns the run history
// @Summary List pipeline runs
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum rows" default(50)
// @Success 200 {object} map[string]interface{} "Run history, newest first"
// @Router /runs [get]
func (h *ChurnHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := store.ListRuns(limit)
	if err != nil {
		http.Error(w, "Failed to retrieve runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// Health reports service and scoring dependency status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service status"
// @Router /health [get]
func (h *ChurnHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":           "healthy",
		"scorer_available": h.Probe.Available(),
		"fallback_enabled": h.FallbackEnabled,
		"batch_cached":     h.Results.Current() != nil,
	}
	if t := h.Probe.CheckedAt(); !t.IsZero() {
		resp["scorer_checked_at"] = t
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses with a structured body.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	var execErr *model.ExecutionError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":           validationErr.Error(),
			"missing_columns": validationErr.MissingColumns,
			"duplicate_ids":   validationErr.DuplicateIDs,
		})
	case errors.Is(err, model.ErrBusy):
		w.Header().Set("Retry-After", "5")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error": model.ErrBusy.Error(),
		})
	case errors.Is(err, model.ErrNoBatch):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": model.ErrNoBatch.Error(),
		})
	case errors.As(err, &execErr):
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  execErr.Error(),
			"reason": execErr.Reason,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
	}
}
