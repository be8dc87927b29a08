package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go-churn-pipeline/internal/model"
)

// Exchange is the hand-off channel to the external scoring process: the
// orchestrator writes the input table into it before the run and reads
// the result artifact out of it afterwards. The concrete transport
// (files here, could be a pipe or RPC) is invisible to the orchestrator.
type Exchange interface {
	// WriteInput publishes the table where the scoring process expects it.
	WriteInput(table *model.CustomerTable) error
	// OpenOutput opens the result artifact. os.ErrNotExist signals that
	// the process produced nothing.
	OpenOutput() (io.ReadCloser, error)
	// Reset removes any stale output artifact from a previous run.
	Reset() error
}

const (
	inputFileName  = "customers.csv"
	outputFileName = "predictions.csv"
)

// FileExchange passes data through customers.csv / predictions.csv in a
// working directory, the contract the scoring script consumes.
type FileExchange struct {
	Dir string
}

func NewFileExchange(dir string) (*FileExchange, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create exchange dir: %w", err)
	}
	return &FileExchange{Dir: dir}, nil
}

// InputPath returns where the scoring process reads its input.
func (x *FileExchange) InputPath() string {
	return filepath.Join(x.Dir, inputFileName)
}

// OutputPath returns where the scoring process writes its result.
func (x *FileExchange) OutputPath() string {
	return filepath.Join(x.Dir, outputFileName)
}

func (x *FileExchange) WriteInput(table *model.CustomerTable) error {
	f, err := os.Create(x.InputPath())
	if err != nil {
		return fmt.Errorf("create input file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("write input header: %w", err)
	}
	row := make([]string, len(table.Columns))
	for _, rec := range table.Records {
		for i, col := range table.Columns {
			row[i] = fmt.Sprintf("%v", rec[col])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write input row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (x *FileExchange) OpenOutput() (io.ReadCloser, error) {
	return os.Open(x.OutputPath())
}

func (x *FileExchange) Reset() error {
	if err := os.Remove(x.OutputPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale output: %w", err)
	}
	return nil
}
