// Package jq adapts the jq binary to the structured-query port.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
	"github.com/kailas-cloud/grepdex/internal/transport/cli"
)

// runner is the consumer interface for process invocation.
type runner interface {
	Run(ctx context.Context, engine, bin string, args ...string) (cli.Result, error)
}

// Engine invokes jq against a structured-element artifact.
type Engine struct {
	bin    string
	runner runner
}

// New creates a jq engine adapter.
func New(bin string, r runner) *Engine {
	return &Engine{bin: bin, runner: r}
}

// Query runs the filter expression over the artifact. Output that parses as
// JSON is returned structured; jq filters can legitimately emit plain text
// (e.g. with -r semantics or string interpolation), which is returned
// verbatim. Any non-zero exit is an engine failure carrying jq's diagnostic.
func (e *Engine) Query(ctx context.Context, artifactPath, filter string) (domsearch.QueryResult, error) {
	res, err := e.runner.Run(ctx, "jq", e.bin, filter, artifactPath)
	if err != nil {
		return domsearch.QueryResult{}, fmt.Errorf("jq: %w: %w", domain.ErrSearchEngine, err)
	}
	if res.ExitCode != 0 {
		return domsearch.QueryResult{}, fmt.Errorf(
			"jq exited %d: %s: %w", res.ExitCode, res.StderrText(), domain.ErrSearchEngine,
		)
	}

	out := strings.TrimSpace(string(res.Stdout))
	if json.Valid([]byte(out)) {
		return domsearch.StructuredResult(json.RawMessage(out)), nil
	}
	return domsearch.TextResult(out), nil
}
