// Package findutil adapts the find binary to the filesystem-metadata port.
package findutil

import (
	"context"
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

// Engine invokes find over the derived-artifact root.
type Engine struct {
	bin    string
	runner runner
}

// New creates a find engine adapter.
func New(bin string, r runner) *Engine {
	return &Engine{bin: bin, runner: r}
}

// Find returns the matching paths under root. Any non-zero exit is an engine
// failure; find has no "no results" exit code, an empty listing exits 0.
func (e *Engine) Find(ctx context.Context, root string, f domsearch.MetadataFilter) ([]string, error) {
	args := []string{root}
	if f.NamePattern != "" {
		args = append(args, "-name", f.NamePattern)
	}
	if f.TypeFilter != "" {
		args = append(args, "-type", f.TypeFilter)
	}
	if f.SizeFilter != "" {
		args = append(args, "-size", f.SizeFilter)
	}

	res, err := e.runner.Run(ctx, "find", e.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("find: %w: %w", domain.ErrSearchEngine, err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf(
			"find exited %d: %s: %w", res.ExitCode, res.StderrText(), domain.ErrSearchEngine,
		)
	}

	return splitLines(res.Stdout), nil
}

func splitLines(out []byte) []string {
	paths := make([]string, 0)
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
