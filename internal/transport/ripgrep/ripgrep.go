// Package ripgrep adapts the rg binary to the pattern-search port.
package ripgrep

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/grepdex/internal/domain"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
	"github.com/kailas-cloud/grepdex/internal/transport/cli"
)

// rg exit codes: 0 = matches found, 1 = no matches, anything else = failure.
// Exit 1 is a successful empty result, not an error.
const exitNoMatches = 1

// runner is the consumer interface for process invocation.
type runner interface {
	Run(ctx context.Context, engine, bin string, args ...string) (cli.Result, error)
}

// Engine invokes rg in --json mode and normalizes its event stream.
type Engine struct {
	bin    string
	runner runner
}

// New creates a ripgrep engine adapter.
func New(bin string, r runner) *Engine {
	return &Engine{bin: bin, runner: r}
}

// Search runs the pattern over the scope path (a single artifact file or the
// corpus root) and returns the normalized match set.
func (e *Engine) Search(
	ctx context.Context, pattern, scope string, caseSensitive bool, contextLines int,
) (domsearch.MatchSet, error) {
	args := []string{"--json"}
	if !caseSensitive {
		args = append(args, "-i")
	}
	if contextLines > 0 {
		args = append(args, "-C", strconv.Itoa(contextLines))
	}
	args = append(args, "-e", pattern, scope)

	res, err := e.runner.Run(ctx, "ripgrep", e.bin, args...)
	if err != nil {
		return domsearch.MatchSet{}, fmt.Errorf("ripgrep: %w: %w", domain.ErrSearchEngine, err)
	}
	if res.ExitCode != 0 && res.ExitCode != exitNoMatches {
		return domsearch.MatchSet{}, fmt.Errorf(
			"ripgrep exited %d: %s: %w", res.ExitCode, res.StderrText(), domain.ErrSearchEngine,
		)
	}

	matches, err := parseEvents(res.Stdout)
	if err != nil {
		return domsearch.MatchSet{}, fmt.Errorf("ripgrep output: %w: %w", domain.ErrSearchEngine, err)
	}
	return domsearch.NewMatchSet(matches), nil
}

// event mirrors one line of the rg --json stream.
type event struct {
	Type string    `json:"type"`
	Data eventData `json:"data"`
}

type eventData struct {
	Path       textWrapper `json:"path"`
	Lines      textWrapper `json:"lines"`
	LineNumber int         `json:"line_number"`
}

type textWrapper struct {
	Text string `json:"text"`
}

// parseEvents normalizes the rg --json event stream into match records.
// Context lines preceding a match attach as before-context; context lines
// following attach to the most recent match until the next file begins.
func parseEvents(out []byte) ([]domsearch.Match, error) {
	var matches []domsearch.Match
	var pending []domsearch.ContextLine
	lastMatch := -1

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("parse event: %w", err)
		}

		switch ev.Type {
		case "begin", "end":
			pending = nil
			lastMatch = -1
		case "match":
			m := domsearch.NewMatch(
				ev.Data.Path.Text,
				ev.Data.LineNumber,
				strings.TrimRight(ev.Data.Lines.Text, "\n"),
			)
			for _, c := range pending {
				m.AddBefore(c.Line, c.Text)
			}
			pending = nil
			matches = append(matches, m)
			lastMatch = len(matches) - 1
		case "context":
			c := domsearch.ContextLine{
				Line: ev.Data.LineNumber,
				Text: strings.TrimRight(ev.Data.Lines.Text, "\n"),
			}
			if lastMatch >= 0 {
				matches[lastMatch].AddAfter(c.Line, c.Text)
			} else {
				pending = append(pending, c)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return matches, nil
}
