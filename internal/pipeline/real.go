package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go-churn-pipeline/internal/model"
)

// RealScorer invokes the external scoring process. The input table goes
// out through the exchange, the process runs under a deadline, and the
// result artifact comes back through the exchange into ReadPredictions.
// The process group is killed on timeout or caller cancellation so no
// children leak.
type RealScorer struct {
	Exchange Exchange
	Command  string
	Args     []string
	WorkDir  string
	Timeout  time.Duration
}

func (s *RealScorer) Score(ctx context.Context, table *model.CustomerTable) (*model.Batch, error) {
	if err := s.Exchange.Reset(); err != nil {
		return nil, fmt.Errorf("prepare exchange: %w", err)
	}
	if err := s.Exchange.WriteInput(table); err != nil {
		return nil, fmt.Errorf("write scoring input: %w", err)
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.Command, s.Args...)
	cmd.Dir = s.WorkDir
	configureCommandProcess(cmd)
	cmd.Cancel = func() error {
		terminateCommandProcess(cmd)
		return nil
	}

	output, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, model.NewExecutionError(model.ReasonTimeout,
			fmt.Errorf("scoring process exceeded %s", timeout))
	}
	if ctx.Err() != nil {
		// Caller went away; the process group is already reaped.
		return nil, fmt.Errorf("scoring cancelled: %w", ctx.Err())
	}
	if err != nil {
		return nil, model.NewExecutionError(model.ReasonCrash,
			fmt.Errorf("%w: %s", err, lastOutputLine(output)))
	}

	artifact, err := s.Exchange.OpenOutput()
	if errors.Is(err, os.ErrNotExist) {
		return nil, model.NewExecutionError(model.ReasonMissingOutput,
			fmt.Errorf("scoring process exited cleanly but produced no output artifact"))
	} else if err != nil {
		return nil, model.NewExecutionError(model.ReasonMissingOutput, err)
	}
	defer artifact.Close()

	return ReadPredictions(artifact, table.IDs())
}

// lastOutputLine keeps error messages short: the tail of the combined
// output is where interpreters put the actual failure.
func lastOutputLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
