package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-churn-pipeline/internal/model"
	"go-churn-pipeline/internal/pipeline"
	"go-churn-pipeline/internal/store"
)

type fakeScorer struct {
	batch *model.Batch
	err   error
}

func (f *fakeScorer) Score(ctx context.Context, table *model.CustomerTable) (*model.Batch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

const uploadCSV = "customerID,tenure,MonthlyCharges,Contract\n" +
	"A,2,95,Month-to-month\n" +
	"B,30,50,One year\n" +
	"C,70,25,Two year\n"

func abcModelBatch() *model.Batch {
	return model.NewBatch([]model.Prediction{
		{CustomerID: "A", ChurnProbability: 0.1, RiskLevel: model.RiskLow},
		{CustomerID: "B", ChurnProbability: 0.5, RiskLevel: model.RiskMedium},
		{CustomerID: "C", ChurnProbability: 0.9, RiskLevel: model.RiskHigh},
	}, model.SourceModel)
}

func newTestHandler(t *testing.T, real pipeline.Scorer, fallbackEnabled bool) *ChurnHandler {
	t.Helper()
	results := store.NewResultStore()
	probe := &pipeline.Probe{Command: "sh", ExchangeDir: t.TempDir()}
	probe.Check()
	return &ChurnHandler{
		Runner: &pipeline.Runner{
			Real:            real,
			Fallback:        pipeline.NewSeededSimulatedScorer(1),
			Results:         results,
			FallbackEnabled: fallbackEnabled,
		},
		Results:         results,
		Probe:           probe,
		FallbackEnabled: fallbackEnabled,
	}
}

func doUpload(t *testing.T, h *ChurnHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UploadCustomers(rec, req)
	return rec
}

func doRun(t *testing.T, h *ChurnHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions/run"+query, nil)
	rec := httptest.NewRecorder()
	h.RunPredictions(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUploadCustomers(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := doUpload(t, h, uploadCSV)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, float64(3), body["customers"])
	require.NotNil(t, h.Staged())
	assert.Equal(t, []string{"A", "B", "C"}, h.Staged().IDs())
}

func TestUploadMissingIDColumn(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := doUpload(t, h, "tenure,Contract\n5,Two year\n")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeJSON(t, rec)
	assert.Contains(t, body["missing_columns"], "customerID")
	assert.Nil(t, h.Staged(), "rejected uploads are not staged")
}

func TestUploadDuplicateIDs(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := doUpload(t, h, "customerID\nA\nA\n")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeJSON(t, rec)
	assert.Contains(t, body["duplicate_ids"], "A")
}

func TestRunWithoutUpload(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := doRun(t, h, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunReturnsBatchAndConsumesUpload(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)
	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)

	rec := doRun(t, h, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, "model", body["source"])
	assert.NotEmpty(t, body["run_id"])

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total_customers"])
	assert.Equal(t, float64(1), summary["high_risk"])
	assert.Equal(t, float64(1), summary["medium_risk"])
	assert.Equal(t, float64(1), summary["low_risk"])
	assert.InDelta(t, 0.5, summary["avg_probability"].(float64), 1e-9)

	predictions := body["predictions"].([]interface{})
	require.Len(t, predictions, 3)

	assert.Nil(t, h.Staged(), "a successful run consumes the staged upload")

	// Running again without a fresh upload is a 400.
	assert.Equal(t, http.StatusBadRequest, doRun(t, h, "").Code)
}

func TestRunDemoModeTagsSimulated(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)
	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)

	rec := doRun(t, h, "?simulate=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "simulated", decodeJSON(t, rec)["source"])
}

func TestRunFallsBackToSimulator(t *testing.T) {
	failing := &fakeScorer{err: model.NewExecutionError(model.ReasonCrash, errors.New("exit 1"))}
	h := newTestHandler(t, failing, true)
	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)

	rec := doRun(t, h, "")
	require.Equal(t, http.StatusOK, rec.Code, "caller gets a valid batch, never a raw execution error")

	body := decodeJSON(t, rec)
	assert.Equal(t, "simulated", body["source"])
	predictions := body["predictions"].([]interface{})
	assert.Len(t, predictions, 3)
}

func TestRunFallbackDisabledReturnsBadGateway(t *testing.T) {
	failing := &fakeScorer{err: model.NewExecutionError(model.ReasonTimeout, errors.New("deadline"))}
	h := newTestHandler(t, failing, false)
	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)

	rec := doRun(t, h, "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "timeout", decodeJSON(t, rec)["reason"])

	// The failed run kept the upload staged and produced no batch.
	assert.NotNil(t, h.Staged())
	getRec := httptest.NewRecorder()
	h.GetPredictions(getRec, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	assert.Equal(t, http.StatusNotFound, getRec.Code)
}

func TestGetPredictionsBeforeAnyRun(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := httptest.NewRecorder()
	h.GetPredictions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadBeforeAnyRun(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := httptest.NewRecorder()
	h.DownloadPredictions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/predictions/download", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadRoundTripMatchesRun(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)
	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)

	runBody := decodeJSON(t, doRun(t, h, ""))
	runPredictions := runBody["predictions"].([]interface{})

	rec := httptest.NewRecorder()
	h.DownloadPredictions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/predictions/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"customerID", "churn_probability", "risk_level"}, rows[0])
	require.Len(t, rows, len(runPredictions)+1)

	for i, raw := range runPredictions {
		p := raw.(map[string]interface{})
		row := rows[i+1]
		assert.Equal(t, p["customerID"], row[0])
		prob, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		assert.InDelta(t, p["churn_probability"].(float64), prob, 1e-6)
		assert.Equal(t, p["risk_level"], row[2])
	}
}

func TestSampleCustomersCSV(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := httptest.NewRecorder()
	h.SampleCustomers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/customers/sample?count=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 6) // header + 5 rows
	assert.Equal(t, "customerID", rows[0][0])

	// A sample must survive the pipeline's own validation.
	table, err := pipeline.ParseCustomerCSV(strings.NewReader(recBodyString(rows)))
	require.NoError(t, err)
	require.NoError(t, pipeline.ValidateTable(table))
}

// recBodyString re-encodes parsed CSV rows so the sample can be fed back
// through the upload parser.
func recBodyString(rows [][]string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.WriteAll(rows)
	w.Flush()
	return b.String()
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["scorer_available"])
	assert.Equal(t, false, body["batch_cached"])

	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)
	require.Equal(t, http.StatusOK, doRun(t, h, "").Code)

	body = decodeJSON(t, recOf(h.Health))
	assert.Equal(t, true, body["batch_cached"])
}

func recOf(handlerFunc func(http.ResponseWriter, *http.Request)) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handlerFunc(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestListRunsFromHistory(t *testing.T) {
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "runs.db")))
	t.Cleanup(func() { _ = store.CloseDB() })

	h := newTestHandler(t, &fakeScorer{batch: abcModelBatch()}, true)
	h.Runner.Track = store.RunLog{}

	require.Equal(t, http.StatusOK, doUpload(t, h, uploadCSV).Code)
	require.Equal(t, http.StatusOK, doRun(t, h, "").Code)

	rec := httptest.NewRecorder()
	h.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Equal(t, float64(1), body["count"])
	runs := body["runs"].([]interface{})
	run := runs[0].(map[string]interface{})
	assert.Equal(t, "cached", run["status"])
	assert.Equal(t, "model", run["source"])
}
