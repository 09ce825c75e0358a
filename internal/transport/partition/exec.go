// Package partition adapts document extraction backends to the extraction
// port: an external partitioner process, or a built-in plaintext splitter
// when none is configured.
package partition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/grepdex/internal/domain/element"
	"github.com/kailas-cloud/grepdex/internal/transport/cli"
)

// runner is the consumer interface for process invocation.
type runner interface {
	Run(ctx context.Context, engine, bin string, args ...string) (cli.Result, error)
}

// ExecExtractor invokes an external partitioner that reads the document at
// the given path and emits a JSON element array on stdout.
type ExecExtractor struct {
	command string
	args    []string
	runner  runner
}

// NewExec creates an exec-backed extractor.
func NewExec(command string, args []string, r runner) *ExecExtractor {
	return &ExecExtractor{command: command, args: args, runner: r}
}

// rawElement accepts both "category" and unstructured's "type" key.
type rawElement struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Text     string `json:"text"`
}

// Extract runs the partitioner over the persisted original. Any non-zero
// exit or unparsable output is an extraction failure; the pipeline records
// it in the document outcome rather than propagating it.
func (e *ExecExtractor) Extract(ctx context.Context, path, _ string) ([]element.Element, error) {
	args := append(append([]string{}, e.args...), path)

	res, err := e.runner.Run(ctx, "partition", e.command, args...)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("partition exited %d: %s", res.ExitCode, res.StderrText())
	}

	var raw []rawElement
	if err := json.Unmarshal(res.Stdout, &raw); err != nil {
		return nil, fmt.Errorf("parse partition output: %w", err)
	}

	elements := make([]element.Element, 0, len(raw))
	for _, r := range raw {
		elements = append(elements, element.Element{
			Category: normalizeCategory(r),
			Text:     r.Text,
		})
	}
	return elements, nil
}

func normalizeCategory(r rawElement) element.Category {
	tag := r.Category
	if tag == "" {
		tag = r.Type
	}
	switch c := element.Category(tag); c {
	case element.Title, element.NarrativeText, element.ListItem, element.Table:
		return c
	default:
		return element.Other
	}
}
