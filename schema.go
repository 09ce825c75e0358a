package grepdex

import (
	"encoding/json"
	"time"

	domdoc "github.com/kailas-cloud/grepdex/internal/domain/document"
	domsearch "github.com/kailas-cloud/grepdex/internal/domain/search"
)

// DocumentStatus is the processing outcome of an upload.
type DocumentStatus string

const (
	// StatusPending means extraction has not finished.
	StatusPending DocumentStatus = "pending"
	// StatusSuccess means both derived artifacts exist.
	StatusSuccess DocumentStatus = "success"
	// StatusError means extraction failed; the original is retained.
	StatusError DocumentStatus = "error"
)

// Document is one registered upload.
type Document struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	UploadedAt  time.Time

	Status       DocumentStatus
	MarkdownPath string
	JSONPath     string
	ElementCount int
	Preview      string
	Error        string
}

// PatternOptions configures a pattern search.
type PatternOptions struct {
	// DocumentID narrows the search to one document's text artifact.
	DocumentID string
	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool
	// ContextLines requests surrounding lines per match.
	ContextLines int
}

// ContextLine is one line of surrounding context attached to a match.
type ContextLine struct {
	Line int
	Text string
}

// Match is a single pattern-search hit.
type Match struct {
	Path   string
	Line   int
	Text   string
	Before []ContextLine
	After  []ContextLine
}

// MetadataFilter holds optional filesystem-metadata criteria. An empty filter
// matches everything under the artifact root.
type MetadataFilter struct {
	NamePattern string // filename glob, e.g. "*.md"
	TypeFilter  string // "f" for files, "d" for directories
	SizeFilter  string // size expression, e.g. "+1M", "-100k"
}

func (f MetadataFilter) toInternal() domsearch.MetadataFilter {
	return domsearch.MetadataFilter{
		NamePattern: f.NamePattern,
		TypeFilter:  f.TypeFilter,
		SizeFilter:  f.SizeFilter,
	}
}

// QueryResult is the structured-query output: parsed JSON when the filter
// emitted JSON, verbatim text otherwise.
type QueryResult struct {
	Structured json.RawMessage
	Text       string
}

// IsStructured reports whether the engine output parsed as JSON.
func (r QueryResult) IsStructured() bool { return r.Structured != nil }

func fromInternalDocument(doc *domdoc.Document) Document {
	out := Document{
		ID:          doc.ID(),
		Filename:    doc.OriginalName(),
		ContentType: doc.ContentType(),
		Size:        doc.ByteSize(),
		UploadedAt:  doc.UploadedAt(),
		Status:      DocumentStatus(doc.Outcome().Status()),
	}
	o := doc.Outcome()
	if o.Succeeded() {
		out.MarkdownPath = o.TextPath()
		out.JSONPath = o.ElementsPath()
		out.ElementCount = o.ElementCount()
		out.Preview = o.Preview()
	} else {
		out.Error = o.ErrMessage()
	}
	return out
}

func fromInternalMatches(matches []domsearch.Match) []Match {
	out := make([]Match, len(matches))
	for i := range matches {
		m := &matches[i]
		out[i] = Match{
			Path:   m.Path(),
			Line:   m.Line(),
			Text:   m.Text(),
			Before: fromContextLines(m.Before()),
			After:  fromContextLines(m.After()),
		}
	}
	return out
}

func fromContextLines(lines []domsearch.ContextLine) []ContextLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]ContextLine, len(lines))
	for i, l := range lines {
		out[i] = ContextLine{Line: l.Line, Text: l.Text}
	}
	return out
}
