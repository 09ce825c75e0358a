package partition

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/grepdex/internal/domain/element"
)

// PlaintextExtractor splits text uploads into typed elements without an
// external partitioner: markdown-style headings become titles, bullet lines
// become list items, blank-line-separated blocks become narrative text.
type PlaintextExtractor struct{}

// NewPlaintext creates the built-in extractor.
func NewPlaintext() *PlaintextExtractor {
	return &PlaintextExtractor{}
}

// Extract reads the persisted original and classifies its lines. Binary
// content fails extraction; the failure is captured in the document outcome.
func (e *PlaintextExtractor) Extract(_ context.Context, path, _ string) ([]element.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read original: %w", err)
	}
	if bytes.ContainsRune(data, 0) || !utf8.Valid(data) {
		return nil, fmt.Errorf("content is not text; configure an external partitioner for binary formats")
	}

	var elements []element.Element
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		elements = append(elements, element.Element{
			Category: element.NarrativeText,
			Text:     strings.Join(para, " "),
		})
		para = nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			flush()
			elements = append(elements, element.Element{
				Category: element.Title,
				Text:     strings.TrimSpace(strings.TrimLeft(line, "#")),
			})
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			flush()
			elements = append(elements, element.Element{
				Category: element.ListItem,
				Text:     strings.TrimSpace(line[2:]),
			})
		default:
			para = append(para, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	flush()

	return elements, nil
}
