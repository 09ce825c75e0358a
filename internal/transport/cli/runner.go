// Package cli runs external engine processes with a bounded lifetime.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kailas-cloud/grepdex/internal/metrics"
)

// waitDelay bounds how long a cancelled process may linger before SIGKILL.
const waitDelay = 3 * time.Second

// Result is the outcome of one completed process invocation. A non-zero exit
// code is not an error at this layer; each engine adapter interprets its own
// exit-code convention.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// StderrText returns the trimmed stderr output for diagnostics.
func (r Result) StderrText() string {
	return strings.TrimSpace(string(r.Stderr))
}

// Runner invokes external binaries with a per-invocation timeout. The child
// process is terminated on timeout or caller cancellation, never left
// running detached.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a runner with the given default timeout.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Run executes bin with args and waits for completion. The engine label is
// used for metrics only. Returns an error when the process could not run or
// was killed on timeout; exit codes are reported through Result.
func (r *Runner) Run(ctx context.Context, engine, bin string, args ...string) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	metrics.EngineDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	switch {
	case err == nil:
		metrics.EngineInvocationsTotal.WithLabelValues(engine, "ok").Inc()
		return res, nil
	case ctx.Err() != nil:
		metrics.EngineInvocationsTotal.WithLabelValues(engine, "error").Inc()
		return res, fmt.Errorf("%s cancelled: %w", engine, ctx.Err())
	case runCtx.Err() != nil:
		metrics.EngineInvocationsTotal.WithLabelValues(engine, "timeout").Inc()
		return res, fmt.Errorf("%s timed out after %s: %w", engine, r.timeout, runCtx.Err())
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			metrics.EngineInvocationsTotal.WithLabelValues(engine, "nonzero").Inc()
			return res, nil
		}
		metrics.EngineInvocationsTotal.WithLabelValues(engine, "error").Inc()
		return res, fmt.Errorf("run %s: %w", engine, err)
	}
}
