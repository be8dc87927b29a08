package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-churn-pipeline/internal/model"
)

func TestFileExchangeWriteInput(t *testing.T) {
	x, err := NewFileExchange(t.TempDir())
	require.NoError(t, err)

	table := &model.CustomerTable{
		Columns: []string{"customerID", "tenure", "Contract"},
		Records: []model.GenericRecord{
			{"customerID": "A", "tenure": 5, "Contract": "Month-to-month"},
			{"customerID": "B", "tenure": 40, "Contract": "Two year"},
		},
	}
	require.NoError(t, x.WriteInput(table))

	data, err := os.ReadFile(x.InputPath())
	require.NoError(t, err)
	assert.Equal(t, "customerID,tenure,Contract\nA,5,Month-to-month\nB,40,Two year\n", string(data))
}

func TestFileExchangeOutputMissing(t *testing.T) {
	x, err := NewFileExchange(t.TempDir())
	require.NoError(t, err)

	_, err = x.OpenOutput()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileExchangeResetRemovesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	x, err := NewFileExchange(dir)
	require.NoError(t, err)

	stale := filepath.Join(dir, "predictions.csv")
	require.NoError(t, os.WriteFile(stale, []byte("customerID,churn_probability\nOLD,0.5\n"), 0o644))

	require.NoError(t, x.Reset())
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))

	// Reset on an already clean exchange is fine too.
	require.NoError(t, x.Reset())
}

func TestFileExchangeOutputRoundTrip(t *testing.T) {
	x, err := NewFileExchange(t.TempDir())
	require.NoError(t, err)

	content := "customerID,churn_probability\nA,0.4\n"
	require.NoError(t, os.WriteFile(x.OutputPath(), []byte(content), 0o644))

	rc, err := x.OpenOutput()
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}
