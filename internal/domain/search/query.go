package search

import "encoding/json"

// QueryResult is the structured-query response. The engine's filter language
// can legitimately emit plain text, so the result is either parsed JSON or
// the raw output verbatim.
type QueryResult struct {
	structured json.RawMessage
	text       string
}

// StructuredResult wraps engine output that parsed as JSON.
func StructuredResult(raw json.RawMessage) QueryResult {
	return QueryResult{structured: raw}
}

// TextResult wraps engine output returned verbatim.
func TextResult(text string) QueryResult {
	return QueryResult{text: text}
}

// IsStructured reports whether the engine output parsed as JSON.
func (r *QueryResult) IsStructured() bool { return r.structured != nil }

// Structured returns the parsed JSON output, or nil for text results.
func (r *QueryResult) Structured() json.RawMessage { return r.structured }

// Text returns the verbatim output for non-JSON results.
func (r *QueryResult) Text() string { return r.text }

// Value returns the marshal-ready representation: raw JSON when structured,
// the verbatim string otherwise.
func (r *QueryResult) Value() any {
	if r.structured != nil {
		return r.structured
	}
	return r.text
}
