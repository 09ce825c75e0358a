// Package search holds the result types shared by the three query surfaces.
package search

// ContextLine is one line of surrounding context attached to a match.
type ContextLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Match is a single pattern-engine hit in a flattened-text artifact.
type Match struct {
	path   string
	line   int
	text   string
	before []ContextLine
	after  []ContextLine
}

// NewMatch creates a match record.
func NewMatch(path string, line int, text string) Match {
	return Match{path: path, line: line, text: text}
}

// Path returns the artifact file that matched.
func (m *Match) Path() string { return m.path }

// Line returns the 1-based line number of the match.
func (m *Match) Line() int { return m.line }

// Text returns the matched line text.
func (m *Match) Text() string { return m.text }

// Before returns context lines preceding the match, if requested.
func (m *Match) Before() []ContextLine { return m.before }

// After returns context lines following the match, if requested.
func (m *Match) After() []ContextLine { return m.after }

// AddBefore appends a preceding context line.
func (m *Match) AddBefore(line int, text string) {
	m.before = append(m.before, ContextLine{Line: line, Text: text})
}

// AddAfter appends a following context line.
func (m *Match) AddAfter(line int, text string) {
	m.after = append(m.after, ContextLine{Line: line, Text: text})
}

// MatchSet is the normalized pattern-search response. A set with zero matches
// is a successful result, not an error.
type MatchSet struct {
	matches []Match
}

// NewMatchSet creates a match set.
func NewMatchSet(matches []Match) MatchSet {
	return MatchSet{matches: matches}
}

// Matches returns the match records in engine output order.
func (s *MatchSet) Matches() []Match { return s.matches }

// Total returns the total match count.
func (s *MatchSet) Total() int { return len(s.matches) }
